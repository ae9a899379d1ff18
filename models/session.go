package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionReady      SessionStatus = "ready"
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
	SessionNoShow     SessionStatus = "no-show"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionReady, SessionInProgress,
		SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s to next.
// scheduled -> ready -> in-progress -> {completed | cancelled | no-show};
// ready and in-progress may also terminate directly to cancelled or no-show.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionScheduled:
		return next == SessionReady || next == SessionCancelled || next == SessionNoShow
	case SessionReady:
		return next == SessionInProgress || next == SessionCancelled || next == SessionNoShow
	case SessionInProgress:
		return next == SessionCompleted || next == SessionCancelled || next == SessionNoShow
	}
	return false
}

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerAI        Speaker = "ai"
	SpeakerCandidate Speaker = "candidate"
)

// Valid reports whether sp is a known speaker.
func (sp Speaker) Valid() bool {
	return sp == SpeakerAI || sp == SpeakerCandidate
}

// TranscriptEntry is a single utterance. Entries are immutable once appended;
// ordering is the sequence order, never re-sorted by timestamp.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Speaker   Speaker   `json:"speaker"`
	Content   string    `json:"content"`
	Duration  int       `json:"duration"` // Duration in seconds
}

// Transcript is the ordered turn-by-turn record of a session.
type Transcript []TranscriptEntry

// InterviewSession records each interview attempt for a candidate and job.
// The transcript and analysis are owned values serialized into the session
// row; they have no identity outside it. The link to a derived report is not
// stored here: InterviewReport.SessionID is the single authoritative relation
// and the session->report direction is a repository lookup.
type InterviewSession struct {
	ID            string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CandidateID   string             `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobID         string             `gorm:"type:uuid;not null;index" json:"job_id"`
	Status        SessionStatus      `gorm:"not null;default:'scheduled';check:status IN ('scheduled', 'ready', 'in-progress', 'completed', 'cancelled', 'no-show')" json:"status"`
	ScheduledDate time.Time          `gorm:"not null" json:"scheduled_date"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	Duration      int                `json:"duration"` // Duration in seconds
	Transcript    Transcript         `gorm:"type:jsonb;serializer:json" json:"transcript,omitempty"`
	Analysis      *InterviewAnalysis `gorm:"type:jsonb;serializer:json" json:"analysis,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName returns the table name for the InterviewSession model
func (InterviewSession) TableName() string {
	return "interview_sessions"
}
