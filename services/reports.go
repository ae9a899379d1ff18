package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
	"github.com/google/uuid"
)

// topTierThreshold is the overall score at which the top-tier note is
// appended to the recommendations text.
const topTierThreshold = 80

// ReportService derives reviewable reports from completed sessions and
// manages their review workflow and version history.
type ReportService struct {
	repos *repository.Repositories
}

func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{repos: repos}
}

// GenerateReportFromSession derives a draft report from a completed,
// analyzed session. The session's analysis is copied wholesale; the
// recommendations and next-steps text follow fixed template rules.
func (s *ReportService) GenerateReportFromSession(ctx context.Context, sessionID, createdBy string) (*models.InterviewReport, error) {
	session, err := s.repos.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, precondition("generate report", "session %s not found", sessionID)
	}
	if session.Status != models.SessionCompleted {
		return nil, precondition("generate report", "session %s is %s; complete the interview before generating a report", sessionID, session.Status)
	}
	if session.Analysis == nil {
		return nil, precondition("generate report", "session %s has no analysis; complete the interview before generating a report", sessionID)
	}

	existing, err := s.repos.Reports.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReportExists
	}

	analysis := *session.Analysis
	report := &models.InterviewReport{
		ID:               uuid.New().String(),
		SessionID:        session.ID,
		CandidateID:      session.CandidateID,
		JobID:            session.JobID,
		Status:           models.ReportDraft,
		Version:          1,
		ExecutiveSummary: analysis.Summary,
		Analysis:         &analysis,
		Recommendations:  BuildRecommendations(&analysis),
		NextSteps:        BuildNextSteps(analysis.Recommendation),
		SharedWith:       models.StringSlice{},
		Permissions:      models.StringSlice{},
		CreatedBy:        createdBy,
	}

	if err := s.repos.Reports.Save(ctx, report); err != nil {
		return nil, err
	}

	slog.Info("Interview report generated", "report_id", report.ID, "session_id", session.ID, "overall_score", analysis.OverallScore)
	return report, nil
}

func (s *ReportService) GetReport(ctx context.Context, id string) (*models.InterviewReport, error) {
	return s.repos.Reports.GetByID(ctx, id)
}

func (s *ReportService) GetReportBySession(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	return s.repos.Reports.GetBySession(ctx, sessionID)
}

func (s *ReportService) ListReports(ctx context.Context) ([]models.InterviewReport, error) {
	return s.repos.Reports.GetAll(ctx)
}

func (s *ReportService) ListByCandidate(ctx context.Context, candidateID string) ([]models.InterviewReport, error) {
	return s.repos.Reports.GetByCandidate(ctx, candidateID)
}

func (s *ReportService) ListByJob(ctx context.Context, jobID string) ([]models.InterviewReport, error) {
	return s.repos.Reports.GetByJob(ctx, jobID)
}

func (s *ReportService) ListByStatus(ctx context.Context, status models.ReportStatus) ([]models.InterviewReport, error) {
	return s.repos.Reports.GetByStatus(ctx, status)
}

// SubmitForReview moves a draft report into review.
func (s *ReportService) SubmitForReview(ctx context.Context, reportID string) (*models.InterviewReport, error) {
	return s.transition(ctx, reportID, models.ReportInReview, nil)
}

// Finalize marks an in-review report as the agreed version for distribution.
// There is no un-finalize.
func (s *ReportService) Finalize(ctx context.Context, reportID, finalizedBy string) (*models.InterviewReport, error) {
	now := time.Now()
	return s.transition(ctx, reportID, models.ReportFinalized, func(report *models.InterviewReport) {
		report.FinalizedAt = &now
		report.FinalizedBy = finalizedBy
	})
}

// RecordVersion bumps the report version and appends an immutable snapshot of
// the report state. Versioning is opt-in by the caller; not every mutation
// produces a version record.
func (s *ReportService) RecordVersion(ctx context.Context, reportID, userID, userName, changes string) (*models.ReportVersion, error) {
	report, err := s.repos.Reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, precondition("record version", "report %s not found", reportID)
	}

	report.Version++
	if err := s.repos.Reports.Save(ctx, report); err != nil {
		return nil, err
	}

	snapshot := *report
	version := &models.ReportVersion{
		ID:        uuid.New().String(),
		ReportID:  report.ID,
		Version:   report.Version,
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
		Changes:   changes,
		Snapshot:  &snapshot,
	}
	if err := s.repos.Versions.Save(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// GetVersions lists a report's snapshots in version order.
func (s *ReportService) GetVersions(ctx context.Context, reportID string) ([]models.ReportVersion, error) {
	return s.repos.Versions.GetByReport(ctx, reportID)
}

func (s *ReportService) transition(ctx context.Context, reportID string, next models.ReportStatus, apply func(*models.InterviewReport)) (*models.InterviewReport, error) {
	report, err := s.repos.Reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}
	if !report.Status.CanTransitionTo(next) {
		return nil, precondition("report transition", "cannot move report %s from %s to %s", reportID, report.Status, next)
	}

	previous := report.Status
	report.Status = next
	if apply != nil {
		apply(report)
	}

	if err := s.repos.Reports.Save(ctx, report); err != nil {
		return nil, err
	}

	slog.Info("Interview report transitioned", "report_id", reportID, "from", previous, "to", next)
	return report, nil
}

// BuildRecommendations renders the recommendations text for an analysis.
// These are string-concatenation rules; order and wording are part of the
// output contract.
func BuildRecommendations(analysis *models.InterviewAnalysis) string {
	var b strings.Builder

	switch analysis.Recommendation {
	case models.StronglyRecommend:
		b.WriteString("Proceed to the final round without delay. The candidate performed strongly across all evaluation categories.")
	case models.Recommend:
		b.WriteString("Advance the candidate to the next interview round.")
	case models.Maybe:
		b.WriteString("Consider the candidate for alternative roles or gather additional signal before deciding.")
	case models.NotRecommend:
		b.WriteString("Do not advance the candidate for this position at this time.")
	}

	if analysis.OverallScore >= topTierThreshold {
		b.WriteString("\n\nTop tier candidate: prioritize scheduling to avoid losing them to competing offers.")
	}

	if len(analysis.Concerns) > 0 {
		b.WriteString("\n\nAreas to explore in follow-up:")
		for _, concern := range analysis.Concerns {
			b.WriteString("\n- ")
			b.WriteString(concern)
		}
	}

	if len(analysis.RedFlags) > 0 {
		b.WriteString("\n\nRed flags raised during the interview:")
		for _, flag := range analysis.RedFlags {
			b.WriteString("\n- ")
			b.WriteString(flag)
		}
	}

	return b.String()
}

// BuildNextSteps renders the next-steps text for a recommendation tier.
func BuildNextSteps(recommendation models.Recommendation) string {
	switch recommendation {
	case models.StronglyRecommend, models.Recommend:
		return "1. Schedule panel interview\n" +
			"2. Assign system design assessment\n" +
			"3. Arrange team-fit conversation\n" +
			"4. Begin reference checks"
	case models.Maybe:
		return "1. Consider for alternative open roles\n" +
			"2. Schedule follow-up discussion\n" +
			"3. Request additional work samples"
	default:
		return "1. Send rejection notice\n" +
			"2. Retain profile in talent pool"
	}
}
