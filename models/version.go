package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportVersion is an immutable snapshot of a report at a version bump.
// Append-only; never mutated or deleted by normal operation.
type ReportVersion struct {
	ID        string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReportID  string           `gorm:"type:uuid;not null;index" json:"report_id"`
	Version   int              `gorm:"not null" json:"version"` // Monotonically increasing per report
	Timestamp time.Time        `gorm:"not null" json:"timestamp"`
	UserID    string           `gorm:"type:uuid;not null" json:"user_id"`
	UserName  string           `gorm:"size:255;not null" json:"user_name"`
	Changes   string           `gorm:"type:text;not null" json:"changes"`
	Snapshot  *InterviewReport `gorm:"type:jsonb;serializer:json" json:"snapshot,omitempty"` // Report state at this point
	CreatedAt time.Time        `json:"created_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName returns the table name for the ReportVersion model
func (ReportVersion) TableName() string {
	return "report_versions"
}
