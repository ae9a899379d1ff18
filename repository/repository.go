package repository

import (
	"context"

	"github.com/candorhq/candor/models"
)

// Repositories bundles the per-entity repositories. Lookups that find nothing
// return (nil, nil); repositories only return errors for store failures.
type Repositories struct {
	Sessions SessionRepository
	Reports  ReportRepository
	Comments CommentRepository
	Versions VersionRepository
	Shares   ShareRepository
}

// SessionRepository is the persistent collection of interview sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *models.InterviewSession) error
	GetAll(ctx context.Context) ([]models.InterviewSession, error)
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error)
	GetByJob(ctx context.Context, jobID string) ([]models.InterviewSession, error)
	GetByStatus(ctx context.Context, status models.SessionStatus) ([]models.InterviewSession, error)
}

// ReportRepository is the persistent collection of interview reports.
type ReportRepository interface {
	Save(ctx context.Context, report *models.InterviewReport) error
	GetAll(ctx context.Context) ([]models.InterviewReport, error)
	GetByID(ctx context.Context, id string) (*models.InterviewReport, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	GetBySession(ctx context.Context, sessionID string) (*models.InterviewReport, error)
	GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewReport, error)
	GetByJob(ctx context.Context, jobID string) ([]models.InterviewReport, error)
	GetByStatus(ctx context.Context, status models.ReportStatus) ([]models.InterviewReport, error)
}

// CommentRepository is the persistent collection of report comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *models.ReportComment) error
	GetAll(ctx context.Context) ([]models.ReportComment, error)
	GetByID(ctx context.Context, id string) (*models.ReportComment, error)
	Delete(ctx context.Context, id string) error
	GetByReport(ctx context.Context, reportID string) ([]models.ReportComment, error)
	GetByParent(ctx context.Context, parentID string) ([]models.ReportComment, error)
}

// VersionRepository is the append-only collection of report version snapshots.
type VersionRepository interface {
	Save(ctx context.Context, version *models.ReportVersion) error
	GetAll(ctx context.Context) ([]models.ReportVersion, error)
	GetByReport(ctx context.Context, reportID string) ([]models.ReportVersion, error)
}

// ShareRepository is the persistent collection of report share grants.
type ShareRepository interface {
	Save(ctx context.Context, share *models.ReportShare) error
	GetAll(ctx context.Context) ([]models.ReportShare, error)
	GetByID(ctx context.Context, id string) (*models.ReportShare, error)
	Delete(ctx context.Context, id string) error
	GetByReport(ctx context.Context, reportID string) ([]models.ReportShare, error)
	GetByToken(ctx context.Context, token string) (*models.ReportShare, error)
}
