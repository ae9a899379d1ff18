package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
	"github.com/google/uuid"
)

// SessionService drives the interview session lifecycle. Transition actions
// are invoked by an external scheduling/execution collaborator; the service
// enforces the state machine and attaches the analysis at completion.
type SessionService struct {
	repos  *repository.Repositories
	scorer Scorer
}

func NewSessionService(repos *repository.Repositories, scorer Scorer) *SessionService {
	return &SessionService{repos: repos, scorer: scorer}
}

// CreateSession schedules a new interview attempt.
func (s *SessionService) CreateSession(ctx context.Context, candidateID, jobID string, scheduledDate time.Time) (*models.InterviewSession, error) {
	if candidateID == "" {
		return nil, precondition("create session", "candidate id is required")
	}
	if jobID == "" {
		return nil, precondition("create session", "job id is required")
	}

	session := &models.InterviewSession{
		ID:            uuid.New().String(),
		CandidateID:   candidateID,
		JobID:         jobID,
		Status:        models.SessionScheduled,
		ScheduledDate: scheduledDate,
		Transcript:    models.Transcript{},
	}
	if err := s.repos.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("Interview session created", "session_id", session.ID, "candidate_id", candidateID, "job_id", jobID)
	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*models.InterviewSession, error) {
	return s.repos.Sessions.GetByID(ctx, id)
}

func (s *SessionService) ListSessions(ctx context.Context) ([]models.InterviewSession, error) {
	return s.repos.Sessions.GetAll(ctx)
}

func (s *SessionService) ListByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error) {
	return s.repos.Sessions.GetByCandidate(ctx, candidateID)
}

func (s *SessionService) ListByJob(ctx context.Context, jobID string) ([]models.InterviewSession, error) {
	return s.repos.Sessions.GetByJob(ctx, jobID)
}

func (s *SessionService) ListByStatus(ctx context.Context, status models.SessionStatus) ([]models.InterviewSession, error) {
	return s.repos.Sessions.GetByStatus(ctx, status)
}

// DeleteSession removes a session. This is an administrative action; derived
// reports are left in place and surface through orphan detection.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.repos.Sessions.Delete(ctx, id)
}

// MarkReady moves a scheduled session to ready.
func (s *SessionService) MarkReady(ctx context.Context, id string) (*models.InterviewSession, error) {
	return s.transition(ctx, id, models.SessionReady, nil)
}

// Start moves a ready session to in-progress and records the start time.
func (s *SessionService) Start(ctx context.Context, id string) (*models.InterviewSession, error) {
	now := time.Now()
	return s.transition(ctx, id, models.SessionInProgress, func(session *models.InterviewSession) {
		session.StartedAt = &now
	})
}

// Complete finishes an in-progress session. The analysis is derived from the
// transcript and attached in the same logical operation, so a session never
// reaches completed without its evaluation.
func (s *SessionService) Complete(ctx context.Context, id string) (*models.InterviewSession, error) {
	now := time.Now()
	return s.transition(ctx, id, models.SessionCompleted, func(session *models.InterviewSession) {
		session.Analysis = s.scorer.Score(session.Transcript)
		session.CompletedAt = &now
		if session.StartedAt != nil {
			session.Duration = int(now.Sub(*session.StartedAt).Seconds())
		}
	})
}

// Cancel terminates a non-terminal session.
func (s *SessionService) Cancel(ctx context.Context, id string) (*models.InterviewSession, error) {
	return s.transition(ctx, id, models.SessionCancelled, nil)
}

// MarkNoShow terminates a non-terminal session for an absent candidate.
func (s *SessionService) MarkNoShow(ctx context.Context, id string) (*models.InterviewSession, error) {
	return s.transition(ctx, id, models.SessionNoShow, nil)
}

// AppendTranscript appends one utterance to an in-progress session. Entries
// are immutable once appended and keep their append order.
func (s *SessionService) AppendTranscript(ctx context.Context, id string, entry models.TranscriptEntry) (*models.InterviewSession, error) {
	session, err := s.repos.Sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Status != models.SessionInProgress {
		return nil, precondition("append transcript", "session %s is %s, not in-progress", id, session.Status)
	}
	if !entry.Speaker.Valid() {
		return nil, precondition("append transcript", "unknown speaker %q", entry.Speaker)
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	session.Transcript = append(session.Transcript, entry)

	if err := s.repos.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// transition loads, validates and applies a status change. A nil session
// means not found; illegal transitions are precondition failures.
func (s *SessionService) transition(ctx context.Context, id string, next models.SessionStatus, apply func(*models.InterviewSession)) (*models.InterviewSession, error) {
	session, err := s.repos.Sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if !session.Status.CanTransitionTo(next) {
		return nil, precondition("session transition", "cannot move session %s from %s to %s", id, session.Status, next)
	}

	previous := session.Status
	session.Status = next
	if apply != nil {
		apply(session)
	}

	if err := s.repos.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("Interview session transitioned", "session_id", id, "from", previous, "to", next)
	return session, nil
}
