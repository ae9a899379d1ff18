package repository

import (
	"context"
	"log/slog"

	"github.com/candorhq/candor/models"
	"gorm.io/gorm"
)

// NewGormRepositories builds GORM-backed repositories sharing one connection.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Sessions: &GormSessionRepository{db: db},
		Reports:  &GormReportRepository{db: db},
		Comments: &GormCommentRepository{db: db},
		Versions: &GormVersionRepository{db: db},
		Shares:   &GormShareRepository{db: db},
	}
}

// AutoMigrate runs database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.InterviewSession{},
		&models.InterviewReport{},
		&models.ReportComment{},
		&models.ReportVersion{},
		&models.ReportShare{},
	)
}

// Session operations

type GormSessionRepository struct {
	db *gorm.DB
}

func (r *GormSessionRepository) Save(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		slog.Error("Failed to save interview session", "error", err, "session_id", session.ID)
		return err
	}
	return nil
}

func (r *GormSessionRepository) GetAll(ctx context.Context) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	if err := r.db.WithContext(ctx).Order("created_at").Find(&sessions).Error; err != nil {
		slog.Error("Failed to get interview sessions", "error", err)
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview session", "error", err, "session_id", id)
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&models.InterviewSession{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		slog.Error("Failed to update interview session", "error", err, "session_id", id)
		return err
	}
	return nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InterviewSession{}).Error; err != nil {
		slog.Error("Failed to delete interview session", "error", err, "session_id", id)
		return err
	}
	slog.Info("Interview session deleted", "session_id", id)
	return nil
}

func (r *GormSessionRepository) GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("created_at").Find(&sessions).Error; err != nil {
		slog.Error("Failed to get interview sessions by candidate", "error", err, "candidate_id", candidateID)
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) GetByJob(ctx context.Context, jobID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at").Find(&sessions).Error; err != nil {
		slog.Error("Failed to get interview sessions by job", "error", err, "job_id", jobID)
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) GetByStatus(ctx context.Context, status models.SessionStatus) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at").Find(&sessions).Error; err != nil {
		slog.Error("Failed to get interview sessions by status", "error", err, "status", status)
		return nil, err
	}
	return sessions, nil
}

// Report operations

type GormReportRepository struct {
	db *gorm.DB
}

func (r *GormReportRepository) Save(ctx context.Context, report *models.InterviewReport) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		slog.Error("Failed to save interview report", "error", err, "report_id", report.ID)
		return err
	}
	return nil
}

func (r *GormReportRepository) GetAll(ctx context.Context) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	if err := r.db.WithContext(ctx).Order("created_at").Find(&reports).Error; err != nil {
		slog.Error("Failed to get interview reports", "error", err)
		return nil, err
	}
	return reports, nil
}

func (r *GormReportRepository) GetByID(ctx context.Context, id string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview report", "error", err, "report_id", id)
		return nil, err
	}
	return &report, nil
}

func (r *GormReportRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&models.InterviewReport{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		slog.Error("Failed to update interview report", "error", err, "report_id", id)
		return err
	}
	return nil
}

func (r *GormReportRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InterviewReport{}).Error; err != nil {
		slog.Error("Failed to delete interview report", "error", err, "report_id", id)
		return err
	}
	slog.Info("Interview report deleted", "report_id", id)
	return nil
}

func (r *GormReportRepository) GetBySession(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&report).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview report by session", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &report, nil
}

func (r *GormReportRepository) GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("created_at").Find(&reports).Error; err != nil {
		slog.Error("Failed to get interview reports by candidate", "error", err, "candidate_id", candidateID)
		return nil, err
	}
	return reports, nil
}

func (r *GormReportRepository) GetByJob(ctx context.Context, jobID string) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at").Find(&reports).Error; err != nil {
		slog.Error("Failed to get interview reports by job", "error", err, "job_id", jobID)
		return nil, err
	}
	return reports, nil
}

func (r *GormReportRepository) GetByStatus(ctx context.Context, status models.ReportStatus) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at").Find(&reports).Error; err != nil {
		slog.Error("Failed to get interview reports by status", "error", err, "status", status)
		return nil, err
	}
	return reports, nil
}

// Comment operations

type GormCommentRepository struct {
	db *gorm.DB
}

func (r *GormCommentRepository) Save(ctx context.Context, comment *models.ReportComment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		slog.Error("Failed to save report comment", "error", err, "comment_id", comment.ID)
		return err
	}
	return nil
}

func (r *GormCommentRepository) GetAll(ctx context.Context) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	if err := r.db.WithContext(ctx).Order("created_at").Find(&comments).Error; err != nil {
		slog.Error("Failed to get report comments", "error", err)
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) GetByID(ctx context.Context, id string) (*models.ReportComment, error) {
	var comment models.ReportComment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get report comment", "error", err, "comment_id", id)
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReportComment{}).Error; err != nil {
		slog.Error("Failed to delete report comment", "error", err, "comment_id", id)
		return err
	}
	return nil
}

func (r *GormCommentRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("created_at").Find(&comments).Error; err != nil {
		slog.Error("Failed to get report comments by report", "error", err, "report_id", reportID)
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) GetByParent(ctx context.Context, parentID string) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at").Find(&comments).Error; err != nil {
		slog.Error("Failed to get report comment replies", "error", err, "parent_id", parentID)
		return nil, err
	}
	return comments, nil
}

// Version operations

type GormVersionRepository struct {
	db *gorm.DB
}

func (r *GormVersionRepository) Save(ctx context.Context, version *models.ReportVersion) error {
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		slog.Error("Failed to save report version", "error", err, "report_id", version.ReportID, "version", version.Version)
		return err
	}
	slog.Info("Report version recorded", "report_id", version.ReportID, "version", version.Version)
	return nil
}

func (r *GormVersionRepository) GetAll(ctx context.Context) ([]models.ReportVersion, error) {
	var versions []models.ReportVersion
	if err := r.db.WithContext(ctx).Order("created_at").Find(&versions).Error; err != nil {
		slog.Error("Failed to get report versions", "error", err)
		return nil, err
	}
	return versions, nil
}

func (r *GormVersionRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportVersion, error) {
	var versions []models.ReportVersion
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("version").Find(&versions).Error; err != nil {
		slog.Error("Failed to get report versions by report", "error", err, "report_id", reportID)
		return nil, err
	}
	return versions, nil
}

// Share operations

type GormShareRepository struct {
	db *gorm.DB
}

func (r *GormShareRepository) Save(ctx context.Context, share *models.ReportShare) error {
	if err := r.db.WithContext(ctx).Save(share).Error; err != nil {
		slog.Error("Failed to save report share", "error", err, "share_id", share.ID)
		return err
	}
	return nil
}

func (r *GormShareRepository) GetAll(ctx context.Context) ([]models.ReportShare, error) {
	var shares []models.ReportShare
	if err := r.db.WithContext(ctx).Order("created_at").Find(&shares).Error; err != nil {
		slog.Error("Failed to get report shares", "error", err)
		return nil, err
	}
	return shares, nil
}

func (r *GormShareRepository) GetByID(ctx context.Context, id string) (*models.ReportShare, error) {
	var share models.ReportShare
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&share).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get report share", "error", err, "share_id", id)
		return nil, err
	}
	return &share, nil
}

func (r *GormShareRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReportShare{}).Error; err != nil {
		slog.Error("Failed to delete report share", "error", err, "share_id", id)
		return err
	}
	slog.Info("Report share revoked", "share_id", id)
	return nil
}

func (r *GormShareRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportShare, error) {
	var shares []models.ReportShare
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("created_at").Find(&shares).Error; err != nil {
		slog.Error("Failed to get report shares by report", "error", err, "report_id", reportID)
		return nil, err
	}
	return shares, nil
}

func (r *GormShareRepository) GetByToken(ctx context.Context, token string) (*models.ReportShare, error) {
	var share models.ReportShare
	if err := r.db.WithContext(ctx).Where("share_token = ?", token).First(&share).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get report share by token", "error", err)
		return nil, err
	}
	return &share, nil
}
