package services

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminEndpoints exposes the consistency validator. Both operations are
// read-only batch passes over the full entity graph.
type AdminEndpoints struct {
	validator *Validator
}

func NewAdminEndpoints(validator *Validator) *AdminEndpoints {
	return &AdminEndpoints{validator: validator}
}

func (e *AdminEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/validate", e.ValidateHandler)
		r.Get("/orphans", e.OrphansHandler)
	})
}

func (e *AdminEndpoints) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	result, err := e.validator.ValidateData(r.Context())
	if err != nil {
		http.Error(w, "Failed to validate data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (e *AdminEndpoints) OrphansHandler(w http.ResponseWriter, r *http.Request) {
	orphans, err := e.validator.FindOrphanedRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to find orphaned records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orphans)
}
