package services

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
	"github.com/google/uuid"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_.-]+)`)

// CommentService manages threaded reviewer remarks on reports.
type CommentService struct {
	repos *repository.Repositories
}

func NewCommentService(repos *repository.Repositories) *CommentService {
	return &CommentService{repos: repos}
}

// AddComment attaches a remark to a report. A reply's parent must be an
// existing comment on the same report. Mentions are derived from the content.
func (s *CommentService) AddComment(ctx context.Context, reportID, userID, userName, content string, parentID *string) (*models.ReportComment, error) {
	report, err := s.repos.Reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, precondition("add comment", "report %s not found", reportID)
	}

	if parentID != nil {
		parent, err := s.repos.Comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, precondition("add comment", "parent comment %s not found", *parentID)
		}
		if parent.ReportID != reportID {
			return nil, precondition("add comment", "parent comment %s belongs to a different report", *parentID)
		}
	}

	comment := &models.ReportComment{
		ID:       uuid.New().String(),
		ReportID: reportID,
		UserID:   userID,
		UserName: userName,
		Content:  content,
		Mentions: ExtractMentions(content),
		ParentID: parentID,
	}
	if err := s.repos.Comments.Save(ctx, comment); err != nil {
		return nil, err
	}

	slog.Info("Report comment added", "comment_id", comment.ID, "report_id", reportID, "is_reply", parentID != nil)
	return comment, nil
}

// GetCommentsByReport lists a report's top-level comments. Replies are
// excluded regardless of their report id.
func (s *CommentService) GetCommentsByReport(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	all, err := s.repos.Comments.GetByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	topLevel := make([]models.ReportComment, 0, len(all))
	for _, comment := range all {
		if comment.ParentID == nil {
			topLevel = append(topLevel, comment)
		}
	}
	return topLevel, nil
}

// GetReplies lists the direct replies to a comment.
func (s *CommentService) GetReplies(ctx context.Context, parentID string) ([]models.ReportComment, error) {
	return s.repos.Comments.GetByParent(ctx, parentID)
}

// UpdateComment rewrites a comment's content, re-derives its mentions and
// marks it edited.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, content string) (*models.ReportComment, error) {
	comment, err := s.repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, nil
	}

	comment.Content = content
	comment.Mentions = ExtractMentions(content)
	comment.IsEdited = true
	if err := s.repos.Comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	return s.repos.Comments.Delete(ctx, commentID)
}

// ExtractMentions scans content for @handle tokens, deduplicating while
// preserving first-seen order.
func ExtractMentions(content string) models.StringSlice {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	mentions := models.StringSlice{}
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		handle := match[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true
		mentions = append(mentions, handle)
	}
	return mentions
}
