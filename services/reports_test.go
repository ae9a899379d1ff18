package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
)

func analysisForScore(score int) *models.InterviewAnalysis {
	return &models.InterviewAnalysis{
		OverallScore: score,
		CategoryScores: models.CategoryScores{
			Technical: score, Communication: score, CulturalFit: score,
			Experience: score, ProblemSolving: score,
		},
		Strengths:       StrengthsForScore(score),
		Concerns:        ConcernsForScore(score),
		RedFlags:        RedFlagsForScore(score),
		KeyHighlights:   []models.KeyHighlight{},
		Recommendation:  RecommendationForScore(score),
		ConfidenceScore: clampScore(score),
		Summary:         "Seeded assessment for testing.",
	}
}

// seedCompletedSession writes a completed, analyzed session straight to the
// store so report tests control the score exactly.
func seedCompletedSession(t *testing.T, repos *repository.Repositories, id string, score int) *models.InterviewSession {
	t.Helper()
	started := time.Now().Add(-45 * time.Minute)
	completed := time.Now()
	session := &models.InterviewSession{
		ID:            id,
		CandidateID:   "cand-1",
		JobID:         "job-1",
		Status:        models.SessionCompleted,
		ScheduledDate: started,
		StartedAt:     &started,
		CompletedAt:   &completed,
		Duration:      int(completed.Sub(started).Seconds()),
		Transcript:    models.Transcript{},
		Analysis:      analysisForScore(score),
	}
	if err := repos.Sessions.Save(context.Background(), session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return session
}

func TestGenerateReportFromSession(t *testing.T) {
	repos := newTestRepos()
	svc := NewReportService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 92)

	report, err := svc.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}

	if report.Status != models.ReportDraft {
		t.Errorf("new report status = %s, expected draft", report.Status)
	}
	if report.Version != 1 {
		t.Errorf("new report version = %d, expected 1", report.Version)
	}
	if report.SessionID != "sess-1" || report.CandidateID != "cand-1" || report.JobID != "job-1" {
		t.Error("report did not inherit session identity fields")
	}
	if report.Analysis == nil || report.Analysis.OverallScore != 92 {
		t.Fatal("report did not copy the session analysis")
	}
	if report.ExecutiveSummary != report.Analysis.Summary {
		t.Error("executive summary does not match the analysis summary")
	}
	if !strings.Contains(report.Recommendations, "Top tier candidate") {
		t.Error("score 92 recommendations missing the top tier note")
	}
	if strings.Contains(report.Recommendations, "Red flags") {
		t.Error("score 92 recommendations should not mention red flags")
	}
	if report.FinalizedAt != nil || report.FinalizedBy != "" {
		t.Error("draft report must not carry finalization metadata")
	}

	// Retrieval paths agree.
	bySession, err := svc.GetReportBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetReportBySession failed: %v", err)
	}
	if bySession == nil || bySession.ID != report.ID {
		t.Error("session lookup did not return the generated report")
	}
}

func TestGenerateReportPreconditions(t *testing.T) {
	repos := newTestRepos()
	svc := NewReportService(repos)
	sessions := newTestSessionService(repos)
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		if _, err := svc.GenerateReportFromSession(ctx, "missing", "r"); !IsPrecondition(err) {
			t.Errorf("expected precondition error, got %v", err)
		}
	})

	t.Run("session not completed", func(t *testing.T) {
		session := mustCreateSession(t, sessions)
		if _, err := svc.GenerateReportFromSession(ctx, session.ID, "r"); !IsPrecondition(err) {
			t.Errorf("expected precondition error, got %v", err)
		}
		// No report was written.
		reports, err := svc.ListReports(ctx)
		if err != nil {
			t.Fatalf("ListReports failed: %v", err)
		}
		if len(reports) != 0 {
			t.Errorf("failed generation left %d reports behind", len(reports))
		}
	})

	t.Run("completed without analysis", func(t *testing.T) {
		session := seedCompletedSession(t, repos, "sess-bare", 75)
		session.Analysis = nil
		if err := repos.Sessions.Save(ctx, session); err != nil {
			t.Fatalf("failed to strip analysis: %v", err)
		}
		if _, err := svc.GenerateReportFromSession(ctx, "sess-bare", "r"); !IsPrecondition(err) {
			t.Errorf("expected precondition error, got %v", err)
		}
	})

	t.Run("duplicate report", func(t *testing.T) {
		seedCompletedSession(t, repos, "sess-dup", 75)
		if _, err := svc.GenerateReportFromSession(ctx, "sess-dup", "r"); err != nil {
			t.Fatalf("first generation failed: %v", err)
		}
		if _, err := svc.GenerateReportFromSession(ctx, "sess-dup", "r"); !errors.Is(err, ErrReportExists) {
			t.Errorf("expected ErrReportExists, got %v", err)
		}
	})
}

func TestReportReviewWorkflow(t *testing.T) {
	repos := newTestRepos()
	svc := NewReportService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 78)
	report, err := svc.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}

	// Draft cannot skip review.
	if _, err := svc.Finalize(ctx, report.ID, "lead-1"); !IsPrecondition(err) {
		t.Fatalf("draft finalize: expected precondition error, got %v", err)
	}

	inReview, err := svc.SubmitForReview(ctx, report.ID)
	if err != nil {
		t.Fatalf("SubmitForReview failed: %v", err)
	}
	if inReview.Status != models.ReportInReview {
		t.Errorf("status = %s, expected in-review", inReview.Status)
	}

	finalized, err := svc.Finalize(ctx, report.ID, "lead-1")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if finalized.Status != models.ReportFinalized {
		t.Errorf("status = %s, expected finalized", finalized.Status)
	}
	if finalized.FinalizedAt == nil || finalized.FinalizedBy != "lead-1" {
		t.Error("finalized report missing finalization metadata")
	}

	// No un-finalize.
	if _, err := svc.SubmitForReview(ctx, report.ID); !IsPrecondition(err) {
		t.Errorf("finalized submit-review: expected precondition error, got %v", err)
	}
}

func TestRecordVersion(t *testing.T) {
	repos := newTestRepos()
	svc := NewReportService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 70)
	report, err := svc.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}

	first, err := svc.RecordVersion(ctx, report.ID, "u1", "Alex", "Reworded the executive summary")
	if err != nil {
		t.Fatalf("RecordVersion failed: %v", err)
	}
	second, err := svc.RecordVersion(ctx, report.ID, "u1", "Alex", "Adjusted next steps")
	if err != nil {
		t.Fatalf("RecordVersion failed: %v", err)
	}

	if first.Version != 2 || second.Version != 3 {
		t.Errorf("versions = %d, %d; expected 2, 3", first.Version, second.Version)
	}
	if first.Snapshot == nil || first.Snapshot.Version != 2 {
		t.Error("snapshot does not capture the bumped report state")
	}

	current, err := svc.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if current.Version != 3 {
		t.Errorf("report version = %d, expected 3", current.Version)
	}

	versions, err := svc.GetVersions(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetVersions failed: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, expected 2", len(versions))
	}
	if versions[0].Version >= versions[1].Version {
		t.Error("versions not in ascending order")
	}

	if _, err := svc.RecordVersion(ctx, "missing", "u1", "Alex", "x"); !IsPrecondition(err) {
		t.Errorf("unknown report: expected precondition error, got %v", err)
	}
}

func TestBuildRecommendations(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		contains    []string
		notContains []string
	}{
		{
			name:        "Strongly recommend with top tier note",
			score:       92,
			contains:    []string{"Proceed to the final round", "Top tier candidate", "Areas to explore in follow-up:"},
			notContains: []string{"Red flags"},
		},
		{
			name:        "Strongly recommend at threshold",
			score:       85,
			contains:    []string{"Proceed to the final round", "Top tier candidate"},
			notContains: []string{"Red flags"},
		},
		{
			name:        "Recommend below top tier",
			score:       75,
			contains:    []string{"Advance the candidate", "Areas to explore in follow-up:"},
			notContains: []string{"Top tier candidate", "Red flags"},
		},
		{
			name:        "Recommend above top tier",
			score:       82,
			contains:    []string{"Advance the candidate", "Top tier candidate"},
			notContains: []string{"Red flags"},
		},
		{
			name:        "Maybe",
			score:       65,
			contains:    []string{"Consider the candidate for alternative roles"},
			notContains: []string{"Top tier candidate", "Red flags"},
		},
		{
			name:     "Not recommend carries red flags",
			score:    45,
			contains: []string{"Do not advance the candidate", "Red flags raised during the interview:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := BuildRecommendations(analysisForScore(tt.score))
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("score %d recommendations missing %q:\n%s", tt.score, want, text)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(text, unwanted) {
					t.Errorf("score %d recommendations should not contain %q:\n%s", tt.score, unwanted, text)
				}
			}
		})
	}
}

func TestBuildNextSteps(t *testing.T) {
	tests := []struct {
		recommendation models.Recommendation
		first          string
		lines          int
	}{
		{models.StronglyRecommend, "1. Schedule panel interview", 4},
		{models.Recommend, "1. Schedule panel interview", 4},
		{models.Maybe, "1. Consider for alternative open roles", 3},
		{models.NotRecommend, "1. Send rejection notice", 2},
	}

	for _, tt := range tests {
		steps := BuildNextSteps(tt.recommendation)
		lines := strings.Split(steps, "\n")
		if len(lines) != tt.lines {
			t.Errorf("%s next steps have %d lines, expected %d", tt.recommendation, len(lines), tt.lines)
		}
		if lines[0] != tt.first {
			t.Errorf("%s next steps start with %q, expected %q", tt.recommendation, lines[0], tt.first)
		}
	}
}
