package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/go-chi/chi/v5"
)

type SessionEndpoints struct {
	sessions *SessionService
}

func NewSessionEndpoints(sessions *SessionService) *SessionEndpoints {
	return &SessionEndpoints{sessions: sessions}
}

type CreateSessionRequest struct {
	CandidateID   string    `json:"candidate_id"`
	JobID         string    `json:"job_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

type SessionResponse struct {
	Session *models.InterviewSession `json:"session"`
}

type GetSessionsResponse struct {
	Sessions []models.InterviewSession `json:"sessions"`
	Count    int                       `json:"count"`
}

type AppendTranscriptRequest struct {
	Speaker  models.Speaker `json:"speaker"`
	Content  string         `json:"content"`
	Duration int            `json:"duration"`
}

func (e *SessionEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", e.CreateSessionHandler)
		r.Get("/", e.GetSessionsHandler)
		r.Get("/{id}", e.GetSessionHandler)
		r.Delete("/{id}", e.DeleteSessionHandler)
		r.Post("/{id}/ready", e.transitionHandler(e.sessions.MarkReady))
		r.Post("/{id}/start", e.transitionHandler(e.sessions.Start))
		r.Post("/{id}/complete", e.transitionHandler(e.sessions.Complete))
		r.Post("/{id}/cancel", e.transitionHandler(e.sessions.Cancel))
		r.Post("/{id}/no-show", e.transitionHandler(e.sessions.MarkNoShow))
		r.Post("/{id}/transcript", e.AppendTranscriptHandler)
	})
}

func (e *SessionEndpoints) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ScheduledDate.IsZero() {
		req.ScheduledDate = time.Now()
	}

	session, err := e.sessions.CreateSession(r.Context(), req.CandidateID, req.JobID, req.ScheduledDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SessionResponse{Session: session})
}

func (e *SessionEndpoints) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		sessions []models.InterviewSession
		err      error
	)

	switch {
	case r.URL.Query().Get("candidate_id") != "":
		sessions, err = e.sessions.ListByCandidate(r.Context(), r.URL.Query().Get("candidate_id"))
	case r.URL.Query().Get("job_id") != "":
		sessions, err = e.sessions.ListByJob(r.Context(), r.URL.Query().Get("job_id"))
	case r.URL.Query().Get("status") != "":
		status := models.SessionStatus(r.URL.Query().Get("status"))
		if !status.Valid() {
			http.Error(w, "Unknown session status", http.StatusBadRequest)
			return
		}
		sessions, err = e.sessions.ListByStatus(r.Context(), status)
	default:
		sessions, err = e.sessions.ListSessions(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetSessionsResponse{Sessions: sessions, Count: len(sessions)})
}

func (e *SessionEndpoints) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	session, err := e.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{Session: session})
}

func (e *SessionEndpoints) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := e.sessions.DeleteSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *SessionEndpoints) AppendTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req AppendTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := e.sessions.AppendTranscript(r.Context(), sessionID, models.TranscriptEntry{
		Speaker:  req.Speaker,
		Content:  req.Content,
		Duration: req.Duration,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{Session: session})
}

// transitionHandler adapts one lifecycle transition into an HTTP handler.
func (e *SessionEndpoints) transitionHandler(transition func(ctx context.Context, id string) (*models.InterviewSession, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		session, err := transition(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if session == nil {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SessionResponse{Session: session})
	}
}

// writeServiceError maps service failures onto HTTP statuses. Precondition
// failures carry an actionable message for the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case IsPrecondition(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case err == ErrReportExists:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
