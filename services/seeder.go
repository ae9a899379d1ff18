package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
)

// DatabaseSeeder populates an empty store with demo interview data. It runs
// the real scoring engine and report pipeline rather than inserting canned
// analyses, so seeded records always satisfy the consistency validator.
type DatabaseSeeder struct {
	repos    *repository.Repositories
	sessions *SessionService
	reports  *ReportService
	comments *CommentService
	shares   *ShareService
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repos *repository.Repositories, sessions *SessionService, reports *ReportService, comments *CommentService, shares *ShareService) *DatabaseSeeder {
	return &DatabaseSeeder{
		repos:    repos,
		sessions: sessions,
		reports:  reports,
		comments: comments,
		shares:   shares,
	}
}

type seedInterview struct {
	candidateID string
	jobID       string
	exchanges   [][2]string // AI question, candidate answer
	outcome     models.SessionStatus
	review      bool // push the derived report through review and sharing
}

// SeedDatabase seeds the database with demo data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	// Check if seeding has already been completed
	existing, err := s.repos.Sessions.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing sessions: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("Database seeding already completed, skipping")
		return nil
	}

	interviews := []seedInterview{
		{
			candidateID: "e5cf1a0e-1d8b-4f6a-9b1c-0f35a8c1d201",
			jobID:       "7b4f2c6a-98d0-4f21-8a3e-5d1c0b2f9e11",
			exchanges: [][2]string{
				{"Tell me about a distributed system you designed.", "I led the design of an event-driven order pipeline handling around forty thousand messages a minute, with idempotent consumers and a dead-letter flow for poison messages."},
				{"How did you handle partial failure?", "We used outbox tables and retries with exponential backoff, and every consumer was safe to replay from the last committed offset."},
				{"What would you change in hindsight?", "I would introduce schema versioning earlier; migrating message contracts in place was the most painful part of the rollout."},
			},
			outcome: models.SessionCompleted,
			review:  true,
		},
		{
			candidateID: "3d9a5b77-6c8e-4a02-bf1d-2e4c9a807f52",
			jobID:       "7b4f2c6a-98d0-4f21-8a3e-5d1c0b2f9e11",
			exchanges: [][2]string{
				{"Walk me through your most recent project.", "I built an internal reporting dashboard in a two-person team, mostly frontend work with a small API layer."},
				{"How do you approach debugging a production incident?", "I start from the logs and recent deploys, then try to reproduce in staging before touching production."},
			},
			outcome: models.SessionCompleted,
		},
		{
			candidateID: "a1f6e3d2-0b9c-47e5-8d4a-6c2b1f0e9d83",
			jobID:       "c2e8d4f0-3a61-4b7d-9e5c-8f0a1b2c3d44",
			exchanges:   nil,
			outcome:     models.SessionCancelled,
		},
		{
			candidateID: "9c0d2e4f-5a6b-4c7d-8e9f-0a1b2c3d4e55",
			jobID:       "c2e8d4f0-3a61-4b7d-9e5c-8f0a1b2c3d44",
			exchanges:   nil,
			outcome:     models.SessionScheduled,
		},
	}

	for _, interview := range interviews {
		if err := s.seedInterview(ctx, interview); err != nil {
			slog.Error("Failed to seed interview", "candidate_id", interview.candidateID, "error", err)
		}
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

func (s *DatabaseSeeder) seedInterview(ctx context.Context, seed seedInterview) error {
	session, err := s.sessions.CreateSession(ctx, seed.candidateID, seed.jobID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if seed.outcome == models.SessionScheduled {
		return nil
	}

	if _, err := s.sessions.MarkReady(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to mark session ready: %w", err)
	}

	if seed.outcome == models.SessionCancelled {
		_, err := s.sessions.Cancel(ctx, session.ID)
		return err
	}

	if _, err := s.sessions.Start(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	for _, exchange := range seed.exchanges {
		for i, speaker := range []models.Speaker{models.SpeakerAI, models.SpeakerCandidate} {
			if _, err := s.sessions.AppendTranscript(ctx, session.ID, models.TranscriptEntry{
				Speaker:  speaker,
				Content:  exchange[i],
				Duration: 30 + 30*i,
			}); err != nil {
				return fmt.Errorf("failed to append transcript: %w", err)
			}
		}
	}

	if _, err := s.sessions.Complete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	report, err := s.reports.GenerateReportFromSession(ctx, session.ID, "seeder")
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if !seed.review {
		return nil
	}

	if _, err := s.reports.SubmitForReview(ctx, report.ID); err != nil {
		return fmt.Errorf("failed to submit report for review: %w", err)
	}

	comment, err := s.comments.AddComment(ctx, report.ID,
		"b7e1c9d3-2f4a-46b8-9c0d-1e2f3a4b5c66", "Morgan Reyes",
		"Strong systems answers. @casey worth a look before the panel.", nil)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if _, err := s.comments.AddComment(ctx, report.ID,
		"d4f6a8b0-1c2d-4e3f-8a9b-0c1d2e3f4a77", "Casey Lin",
		"Agreed, scheduling the panel this week.", &comment.ID); err != nil {
		return fmt.Errorf("failed to add reply: %w", err)
	}

	if _, err := s.reports.RecordVersion(ctx, report.ID,
		"b7e1c9d3-2f4a-46b8-9c0d-1e2f3a4b5c66", "Morgan Reyes",
		"Reviewed analysis and confirmed next steps"); err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}

	if _, err := s.reports.Finalize(ctx, report.ID, "Morgan Reyes"); err != nil {
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	if _, err := s.shares.CreateShare(ctx, report.ID, "hiring-panel@example.com", "view", "Morgan Reyes", nil); err != nil {
		return fmt.Errorf("failed to share report: %w", err)
	}

	return nil
}
