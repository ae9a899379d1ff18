package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportShare is a revocable access grant for external report viewing.
// The token is a signed, unguessable string looked up verbatim.
type ReportShare struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReportID   string         `gorm:"type:uuid;not null;index" json:"report_id"`
	ShareToken string         `gorm:"uniqueIndex;not null" json:"share_token"`
	SharedWith string         `gorm:"size:255" json:"shared_with,omitempty"` // Opaque recipient identifier
	Permission string         `gorm:"size:50;default:'view'" json:"permission"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	CreatedBy  string         `gorm:"size:255" json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the ReportShare model
func (ReportShare) TableName() string {
	return "report_shares"
}
