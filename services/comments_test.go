package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/candorhq/candor/models"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected models.StringSlice
	}{
		{
			name:     "Single mention",
			content:  "Looks good to me @casey",
			expected: models.StringSlice{"casey"},
		},
		{
			name:     "Multiple mentions keep order",
			content:  "@jordan please review, then hand to @casey",
			expected: models.StringSlice{"jordan", "casey"},
		},
		{
			name:     "Duplicates collapse to first occurrence",
			content:  "@casey and @jordan and @casey again",
			expected: models.StringSlice{"casey", "jordan"},
		},
		{
			name:     "Handles with dots dashes underscores",
			content:  "cc @sam.lee @dev-team @qa_bot",
			expected: models.StringSlice{"sam.lee", "dev-team", "qa_bot"},
		},
		{
			name:     "No mentions",
			content:  "Scores look consistent with the transcript",
			expected: models.StringSlice{},
		},
		{
			name:     "Bare at sign",
			content:  "meet @ noon",
			expected: models.StringSlice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMentions(tt.content); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractMentions(%q) = %v, expected %v", tt.content, got, tt.expected)
			}
		})
	}
}

func TestAddComment(t *testing.T) {
	repos := newTestRepos()
	reports := NewReportService(repos)
	svc := NewCommentService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 75)
	report, err := reports.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}

	comment, err := svc.AddComment(ctx, report.ID, "u1", "Jordan", "Strong on systems, ping @casey", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ParentID != nil {
		t.Error("top-level comment should have no parent")
	}
	if !reflect.DeepEqual(comment.Mentions, models.StringSlice{"casey"}) {
		t.Errorf("mentions = %v, expected [casey]", comment.Mentions)
	}
	if comment.IsEdited {
		t.Error("new comment should not be marked edited")
	}

	if _, err := svc.AddComment(ctx, "missing-report", "u1", "Jordan", "hello", nil); !IsPrecondition(err) {
		t.Errorf("unknown report: expected precondition error, got %v", err)
	}
}

func TestCommentThreading(t *testing.T) {
	repos := newTestRepos()
	reports := NewReportService(repos)
	svc := NewCommentService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 75)
	report, err := reports.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}

	top, err := svc.AddComment(ctx, report.ID, "u1", "Jordan", "Thoughts on the scoring?", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	reply, err := svc.AddComment(ctx, report.ID, "u2", "Casey", "Agrees with the transcript", &top.ID)
	if err != nil {
		t.Fatalf("AddComment reply failed: %v", err)
	}

	topLevel, err := svc.GetCommentsByReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetCommentsByReport failed: %v", err)
	}
	if len(topLevel) != 1 || topLevel[0].ID != top.ID {
		t.Errorf("top-level listing returned %d comments, expected only the parent", len(topLevel))
	}

	replies, err := svc.GetReplies(ctx, top.ID)
	if err != nil {
		t.Fatalf("GetReplies failed: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply.ID {
		t.Errorf("replies listing returned %d comments, expected only the reply", len(replies))
	}

	t.Run("reply to unknown parent", func(t *testing.T) {
		missing := "missing-parent"
		if _, err := svc.AddComment(ctx, report.ID, "u2", "Casey", "hi", &missing); !IsPrecondition(err) {
			t.Errorf("expected precondition error, got %v", err)
		}
	})

	t.Run("reply to parent on another report", func(t *testing.T) {
		seedCompletedSession(t, repos, "sess-2", 75)
		other, err := reports.GenerateReportFromSession(ctx, "sess-2", "recruiter-1")
		if err != nil {
			t.Fatalf("GenerateReportFromSession failed: %v", err)
		}
		if _, err := svc.AddComment(ctx, other.ID, "u2", "Casey", "cross-thread", &top.ID); !IsPrecondition(err) {
			t.Errorf("expected precondition error, got %v", err)
		}
	})
}

func TestUpdateComment(t *testing.T) {
	repos := newTestRepos()
	reports := NewReportService(repos)
	svc := NewCommentService(repos)
	ctx := context.Background()

	seedCompletedSession(t, repos, "sess-1", 75)
	report, err := reports.GenerateReportFromSession(ctx, "sess-1", "recruiter-1")
	if err != nil {
		t.Fatalf("GenerateReportFromSession failed: %v", err)
	}
	comment, err := svc.AddComment(ctx, report.ID, "u1", "Jordan", "Original text @casey", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	updated, err := svc.UpdateComment(ctx, comment.ID, "Revised text @jordan")
	if err != nil {
		t.Fatalf("UpdateComment failed: %v", err)
	}
	if updated.Content != "Revised text @jordan" {
		t.Errorf("content = %q", updated.Content)
	}
	if !updated.IsEdited {
		t.Error("updated comment not marked edited")
	}
	if !reflect.DeepEqual(updated.Mentions, models.StringSlice{"jordan"}) {
		t.Errorf("mentions not re-derived: %v", updated.Mentions)
	}

	missing, err := svc.UpdateComment(ctx, "nope", "x")
	if err != nil || missing != nil {
		t.Errorf("unknown comment: expected (nil, nil), got (%v, %v)", missing, err)
	}

	if err := svc.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	remaining, err := svc.GetCommentsByReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetCommentsByReport failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("deleted comment still listed: %d remaining", len(remaining))
	}
}
