package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportStatus is the review state of an interview report.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportInReview  ReportStatus = "in-review"
	ReportFinalized ReportStatus = "finalized"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportDraft, ReportInReview, ReportFinalized:
		return true
	}
	return false
}

// CanTransitionTo reports whether the review workflow permits moving from s to
// next. draft -> in-review -> finalized; finalized is terminal (no un-finalize).
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportDraft:
		return next == ReportInReview
	case ReportInReview:
		return next == ReportFinalized
	}
	return false
}

// StringSlice is a plain string list stored as a JSON column.
type StringSlice []string

// InterviewReport is the durable, reviewable artifact derived from a
// completed session's analysis. CandidateID and JobID must match the owning
// session at all times; the consistency validator flags any drift.
type InterviewReport struct {
	ID               string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID        string             `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	CandidateID      string             `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobID            string             `gorm:"type:uuid;not null;index" json:"job_id"`
	Status           ReportStatus       `gorm:"not null;default:'draft';check:status IN ('draft', 'in-review', 'finalized')" json:"status"`
	Version          int                `gorm:"not null;default:1" json:"version"`
	ExecutiveSummary string             `gorm:"type:text" json:"executive_summary"`
	Analysis         *InterviewAnalysis `gorm:"type:jsonb;serializer:json" json:"analysis,omitempty"` // Copy of the session's analysis at generation time
	Recommendations  string             `gorm:"type:text" json:"recommendations"`
	NextSteps        string             `gorm:"type:text" json:"next_steps"`
	IsShared         bool               `gorm:"default:false" json:"is_shared"`
	SharedWith       StringSlice        `gorm:"type:jsonb;serializer:json" json:"shared_with,omitempty"`
	Permissions      StringSlice        `gorm:"type:jsonb;serializer:json" json:"permissions,omitempty"`
	FinalizedAt      *time.Time         `json:"finalized_at,omitempty"`
	FinalizedBy      string             `gorm:"size:255" json:"finalized_by,omitempty"`
	CreatedBy        string             `gorm:"size:255" json:"created_by"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName returns the table name for the InterviewReport model
func (InterviewReport) TableName() string {
	return "interview_reports"
}
