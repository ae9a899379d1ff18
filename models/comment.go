package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportComment is a threaded remark on a report. Top-level comments have a
// nil ParentID; replies reference another comment on the same report.
type ReportComment struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReportID  string         `gorm:"type:uuid;not null;index" json:"report_id"`
	UserID    string         `gorm:"type:uuid;not null" json:"user_id"`
	UserName  string         `gorm:"size:255;not null" json:"user_name"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Mentions  StringSlice    `gorm:"type:jsonb;serializer:json" json:"mentions,omitempty"` // @handle tokens extracted from content, deduplicated
	ParentID  *string        `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	IsEdited  bool           `gorm:"default:false" json:"is_edited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the ReportComment model
func (ReportComment) TableName() string {
	return "report_comments"
}
