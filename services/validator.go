package services

import (
	"context"
	"fmt"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
)

// ValidationIssue is one integrity finding. Issues are data, not errors:
// the validator reports them, it never throws them.
type ValidationIssue struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
	Message  string `json:"message"`
}

// ValidationResult is the outcome of a full consistency pass. IsValid is
// true when there are no errors; warnings never block.
type ValidationResult struct {
	IsValid  bool              `json:"is_valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// OrphanReport lists records whose referenced parent no longer exists, plus
// completed and analyzed sessions that never produced a report.
type OrphanReport struct {
	OrphanedReports        []models.InterviewReport  `json:"orphaned_reports"`
	OrphanedComments       []models.ReportComment    `json:"orphaned_comments"`
	SessionsWithoutReports []models.InterviewSession `json:"sessions_without_reports"`
}

// Validator runs read-only integrity checks over the full entity graph. It
// reads each collection once and resolves references through id-indexed
// sets, so a pass is linear in total record count.
type Validator struct {
	repos *repository.Repositories
}

func NewValidator(repos *repository.Repositories) *Validator {
	return &Validator{repos: repos}
}

// snapshot is one read of every collection at invocation time.
type snapshot struct {
	sessions []models.InterviewSession
	reports  []models.InterviewReport
	comments []models.ReportComment
	shares   []models.ReportShare

	sessionByID map[string]*models.InterviewSession
	reportByID  map[string]*models.InterviewReport
	commentByID map[string]*models.ReportComment
	reportedSet map[string]bool // session ids that have a report
}

func (v *Validator) load(ctx context.Context) (*snapshot, error) {
	sessions, err := v.repos.Sessions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	reports, err := v.repos.Reports.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	comments, err := v.repos.Comments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	shares, err := v.repos.Shares.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shares: %w", err)
	}

	snap := &snapshot{
		sessions:    sessions,
		reports:     reports,
		comments:    comments,
		shares:      shares,
		sessionByID: make(map[string]*models.InterviewSession, len(sessions)),
		reportByID:  make(map[string]*models.InterviewReport, len(reports)),
		commentByID: make(map[string]*models.ReportComment, len(comments)),
		reportedSet: make(map[string]bool, len(reports)),
	}
	for i := range sessions {
		snap.sessionByID[sessions[i].ID] = &sessions[i]
	}
	for i := range reports {
		snap.reportByID[reports[i].ID] = &reports[i]
		snap.reportedSet[reports[i].SessionID] = true
	}
	for i := range comments {
		snap.commentByID[comments[i].ID] = &comments[i]
	}
	return snap, nil
}

// ValidateData runs the full consistency check. It is re-runnable at any
// time, has no side effects, and returns a structured result even over an
// empty store.
func (v *Validator) ValidateData(ctx context.Context) (*ValidationResult, error) {
	snap, err := v.load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		Errors:   []ValidationIssue{},
		Warnings: []ValidationIssue{},
	}

	for i := range snap.sessions {
		v.checkSession(&snap.sessions[i], result)
	}
	for i := range snap.reports {
		v.checkReport(&snap.reports[i], snap, result)
	}
	for i := range snap.comments {
		v.checkComment(&snap.comments[i], snap, result)
	}
	for i := range snap.shares {
		v.checkShare(&snap.shares[i], snap, result)
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

func (v *Validator) checkSession(session *models.InterviewSession, result *ValidationResult) {
	if session.ID == "" || session.CandidateID == "" || session.JobID == "" {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "session",
			EntityID: session.ID,
			Message:  fmt.Sprintf("session %s is missing required fields (id, candidate id and job id are mandatory)", session.ID),
		})
	}

	if session.StartedAt != nil && session.CompletedAt != nil && session.CompletedAt.Before(*session.StartedAt) {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "session",
			EntityID: session.ID,
			Message:  fmt.Sprintf("session %s completed before it started", session.ID),
		})
	}

	if session.Status == models.SessionCompleted && session.Analysis == nil {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Entity:   "session",
			EntityID: session.ID,
			Message:  fmt.Sprintf("completed session %s has no analysis", session.ID),
		})
	}
}

func (v *Validator) checkReport(report *models.InterviewReport, snap *snapshot, result *ValidationResult) {
	if report.ID == "" || report.SessionID == "" || report.CandidateID == "" || report.JobID == "" {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "report",
			EntityID: report.ID,
			Message:  fmt.Sprintf("report %s is missing required fields (id, session id, candidate id and job id are mandatory)", report.ID),
		})
	}

	session, ok := snap.sessionByID[report.SessionID]
	if !ok {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "report",
			EntityID: report.ID,
			Message:  fmt.Sprintf("report %s references non-existent session %s", report.ID, report.SessionID),
		})
	} else {
		if report.CandidateID != session.CandidateID {
			result.Errors = append(result.Errors, ValidationIssue{
				Entity:   "report",
				EntityID: report.ID,
				Message:  fmt.Sprintf("report %s candidate id %s does not match session candidate id %s", report.ID, report.CandidateID, session.CandidateID),
			})
		}
		if report.JobID != session.JobID {
			result.Errors = append(result.Errors, ValidationIssue{
				Entity:   "report",
				EntityID: report.ID,
				Message:  fmt.Sprintf("report %s job id %s does not match session job id %s", report.ID, report.JobID, session.JobID),
			})
		}
	}

	if report.Status == models.ReportFinalized && (report.FinalizedAt == nil || report.FinalizedBy == "") {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Entity:   "report",
			EntityID: report.ID,
			Message:  fmt.Sprintf("finalized report %s is missing finalized-at or finalized-by", report.ID),
		})
	}
}

func (v *Validator) checkComment(comment *models.ReportComment, snap *snapshot, result *ValidationResult) {
	if comment.ID == "" || comment.ReportID == "" || comment.UserID == "" {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "comment",
			EntityID: comment.ID,
			Message:  fmt.Sprintf("comment %s is missing required fields (id, report id and user id are mandatory)", comment.ID),
		})
	}

	if _, ok := snap.reportByID[comment.ReportID]; !ok {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "comment",
			EntityID: comment.ID,
			Message:  fmt.Sprintf("comment %s references non-existent report %s", comment.ID, comment.ReportID),
		})
	}

	if comment.ParentID != nil {
		parent, ok := snap.commentByID[*comment.ParentID]
		if !ok {
			result.Errors = append(result.Errors, ValidationIssue{
				Entity:   "comment",
				EntityID: comment.ID,
				Message:  fmt.Sprintf("comment %s references non-existent parent comment %s", comment.ID, *comment.ParentID),
			})
		} else if parent.ReportID != comment.ReportID {
			result.Errors = append(result.Errors, ValidationIssue{
				Entity:   "comment",
				EntityID: comment.ID,
				Message:  fmt.Sprintf("comment %s and its parent %s belong to different reports", comment.ID, *comment.ParentID),
			})
		}
	}
}

func (v *Validator) checkShare(share *models.ReportShare, snap *snapshot, result *ValidationResult) {
	if share.ID == "" || share.ReportID == "" || share.ShareToken == "" {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "share",
			EntityID: share.ID,
			Message:  fmt.Sprintf("share %s is missing required fields (id, report id and token are mandatory)", share.ID),
		})
	}

	if _, ok := snap.reportByID[share.ReportID]; !ok {
		result.Errors = append(result.Errors, ValidationIssue{
			Entity:   "share",
			EntityID: share.ID,
			Message:  fmt.Sprintf("share %s references non-existent report %s", share.ID, share.ReportID),
		})
	}
}

// FindOrphanedRecords detects records whose parent entity no longer exists.
// Orphans are reported separately and do not affect ValidateData's IsValid.
func (v *Validator) FindOrphanedRecords(ctx context.Context) (*OrphanReport, error) {
	snap, err := v.load(ctx)
	if err != nil {
		return nil, err
	}

	orphans := &OrphanReport{
		OrphanedReports:        []models.InterviewReport{},
		OrphanedComments:       []models.ReportComment{},
		SessionsWithoutReports: []models.InterviewSession{},
	}

	for _, report := range snap.reports {
		if _, ok := snap.sessionByID[report.SessionID]; !ok {
			orphans.OrphanedReports = append(orphans.OrphanedReports, report)
		}
	}
	for _, comment := range snap.comments {
		if _, ok := snap.reportByID[comment.ReportID]; !ok {
			orphans.OrphanedComments = append(orphans.OrphanedComments, comment)
		}
	}
	for _, session := range snap.sessions {
		if session.Status == models.SessionCompleted && session.Analysis != nil && !snap.reportedSet[session.ID] {
			orphans.SessionsWithoutReports = append(orphans.SessionsWithoutReports, session)
		}
	}

	return orphans, nil
}
