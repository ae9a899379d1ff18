package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/go-chi/chi/v5"
)

type ReportEndpoints struct {
	reports  *ReportService
	comments *CommentService
	shares   *ShareService
}

func NewReportEndpoints(reports *ReportService, comments *CommentService, shares *ShareService) *ReportEndpoints {
	return &ReportEndpoints{reports: reports, comments: comments, shares: shares}
}

type GenerateReportRequest struct {
	SessionID string `json:"session_id"`
	CreatedBy string `json:"created_by"`
}

type ReportResponse struct {
	Report *models.InterviewReport `json:"report"`
}

type GetReportsResponse struct {
	Reports []models.InterviewReport `json:"reports"`
	Count   int                      `json:"count"`
}

type FinalizeReportRequest struct {
	FinalizedBy string `json:"finalized_by"`
}

type RecordVersionRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Changes  string `json:"changes"`
}

type AddCommentRequest struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type CreateShareRequest struct {
	SharedWith string     `json:"shared_with"`
	Permission string     `json:"permission"`
	CreatedBy  string     `json:"created_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type SharedReportResponse struct {
	Report *models.InterviewReport `json:"report"`
	Share  *models.ReportShare     `json:"share"`
}

func (e *ReportEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Post("/generate", e.GenerateReportHandler)
		r.Get("/", e.GetReportsHandler)
		r.Get("/{id}", e.GetReportHandler)
		r.Post("/{id}/submit-review", e.SubmitForReviewHandler)
		r.Post("/{id}/finalize", e.FinalizeHandler)
		r.Get("/{id}/versions", e.GetVersionsHandler)
		r.Post("/{id}/versions", e.RecordVersionHandler)
		r.Post("/{id}/comments", e.AddCommentHandler)
		r.Get("/{id}/comments", e.GetCommentsHandler)
		r.Post("/{id}/shares", e.CreateShareHandler)
		r.Get("/{id}/shares", e.GetSharesHandler)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/{id}/replies", e.GetRepliesHandler)
		r.Put("/{id}", e.UpdateCommentHandler)
		r.Delete("/{id}", e.DeleteCommentHandler)
	})

	r.Delete("/shares/{id}", e.RevokeShareHandler)
}

// RegisterPublicRoutes registers routes reachable without a reviewer
// identity, such as token-addressed report viewing.
func (e *ReportEndpoints) RegisterPublicRoutes(r chi.Router) {
	r.Get("/shared/{token}", e.GetSharedReportHandler)
}

func (e *ReportEndpoints) GenerateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := e.reports.GenerateReportFromSession(r.Context(), req.SessionID, req.CreatedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ReportResponse{Report: report})
}

func (e *ReportEndpoints) GetReportsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		reports []models.InterviewReport
		err     error
	)

	switch {
	case r.URL.Query().Get("candidate_id") != "":
		reports, err = e.reports.ListByCandidate(r.Context(), r.URL.Query().Get("candidate_id"))
	case r.URL.Query().Get("job_id") != "":
		reports, err = e.reports.ListByJob(r.Context(), r.URL.Query().Get("job_id"))
	case r.URL.Query().Get("status") != "":
		status := models.ReportStatus(r.URL.Query().Get("status"))
		if !status.Valid() {
			http.Error(w, "Unknown report status", http.StatusBadRequest)
			return
		}
		reports, err = e.reports.ListByStatus(r.Context(), status)
	case r.URL.Query().Get("session_id") != "":
		var report *models.InterviewReport
		report, err = e.reports.GetReportBySession(r.Context(), r.URL.Query().Get("session_id"))
		if report != nil {
			reports = []models.InterviewReport{*report}
		}
	default:
		reports, err = e.reports.ListReports(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to get reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetReportsResponse{Reports: reports, Count: len(reports)})
}

func (e *ReportEndpoints) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := e.reports.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportResponse{Report: report})
}

func (e *ReportEndpoints) SubmitForReviewHandler(w http.ResponseWriter, r *http.Request) {
	report, err := e.reports.SubmitForReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportResponse{Report: report})
}

func (e *ReportEndpoints) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	var req FinalizeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := e.reports.Finalize(r.Context(), chi.URLParam(r, "id"), req.FinalizedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportResponse{Report: report})
}

func (e *ReportEndpoints) GetVersionsHandler(w http.ResponseWriter, r *http.Request) {
	versions, err := e.reports.GetVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get versions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"versions": versions, "count": len(versions)})
}

func (e *ReportEndpoints) RecordVersionHandler(w http.ResponseWriter, r *http.Request) {
	var req RecordVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	version, err := e.reports.RecordVersion(r.Context(), chi.URLParam(r, "id"), req.UserID, req.UserName, req.Changes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"version": version})
}

func (e *ReportEndpoints) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := e.comments.AddComment(r.Context(), chi.URLParam(r, "id"), req.UserID, req.UserName, req.Content, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"comment": comment})
}

func (e *ReportEndpoints) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := e.comments.GetCommentsByReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get comments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"comments": comments, "count": len(comments)})
}

func (e *ReportEndpoints) GetRepliesHandler(w http.ResponseWriter, r *http.Request) {
	replies, err := e.comments.GetReplies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get replies", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"comments": replies, "count": len(replies)})
}

func (e *ReportEndpoints) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := e.comments.UpdateComment(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if comment == nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"comment": comment})
}

func (e *ReportEndpoints) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.comments.DeleteComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *ReportEndpoints) CreateShareHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	share, err := e.shares.CreateShare(r.Context(), chi.URLParam(r, "id"), req.SharedWith, req.Permission, req.CreatedBy, req.ExpiresAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"share": share})
}

func (e *ReportEndpoints) GetSharesHandler(w http.ResponseWriter, r *http.Request) {
	shares, err := e.shares.ListByReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to get shares", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"shares": shares, "count": len(shares)})
}

func (e *ReportEndpoints) RevokeShareHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.shares.RevokeShare(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, "Failed to revoke share", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *ReportEndpoints) GetSharedReportHandler(w http.ResponseWriter, r *http.Request) {
	share, report, err := e.shares.ResolveToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "Failed to resolve share token", http.StatusInternalServerError)
		return
	}
	if share == nil || report == nil {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SharedReportResponse{Report: report, Share: share})
}
