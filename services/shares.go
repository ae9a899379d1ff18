package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/candorhq/candor/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ShareService issues and resolves revocable report access grants. Tokens
// are signed HS256 JWTs carrying the report id with a uuid jti for
// uniqueness, but callers treat them as opaque strings: resolution is a
// verbatim store lookup plus signature verification.
type ShareService struct {
	repos  *repository.Repositories
	secret []byte
}

func NewShareService(repos *repository.Repositories, signingSecret string) *ShareService {
	return &ShareService{repos: repos, secret: []byte(signingSecret)}
}

// CreateShare grants access to a report and marks the report shared.
func (s *ShareService) CreateShare(ctx context.Context, reportID, sharedWith, permission, createdBy string, expiresAt *time.Time) (*models.ReportShare, error) {
	report, err := s.repos.Reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, precondition("create share", "report %s not found", reportID)
	}

	token, err := s.signToken(reportID, expiresAt)
	if err != nil {
		return nil, err
	}

	if permission == "" {
		permission = "view"
	}
	share := &models.ReportShare{
		ID:         uuid.New().String(),
		ReportID:   reportID,
		ShareToken: token,
		SharedWith: sharedWith,
		Permission: permission,
		ExpiresAt:  expiresAt,
		CreatedBy:  createdBy,
	}
	if err := s.repos.Shares.Save(ctx, share); err != nil {
		return nil, err
	}

	report.IsShared = true
	if sharedWith != "" && !contains(report.SharedWith, sharedWith) {
		report.SharedWith = append(report.SharedWith, sharedWith)
	}
	if !contains(report.Permissions, permission) {
		report.Permissions = append(report.Permissions, permission)
	}
	if err := s.repos.Reports.Save(ctx, report); err != nil {
		return nil, err
	}

	slog.Info("Report share created", "share_id", share.ID, "report_id", reportID, "shared_with", sharedWith)
	return share, nil
}

// ResolveToken returns the share and report for a token, or (nil, nil, nil)
// when the token is unknown, revoked, expired or fails verification.
func (s *ShareService) ResolveToken(ctx context.Context, token string) (*models.ReportShare, *models.InterviewReport, error) {
	if err := s.verifyToken(token); err != nil {
		slog.Warn("Share token failed verification", "error", err)
		return nil, nil, nil
	}

	share, err := s.repos.Shares.GetByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if share == nil {
		return nil, nil, nil
	}
	if share.ExpiresAt != nil && share.ExpiresAt.Before(time.Now()) {
		return nil, nil, nil
	}

	report, err := s.repos.Reports.GetByID(ctx, share.ReportID)
	if err != nil {
		return nil, nil, err
	}
	return share, report, nil
}

func (s *ShareService) ListByReport(ctx context.Context, reportID string) ([]models.ReportShare, error) {
	return s.repos.Shares.GetByReport(ctx, reportID)
}

// RevokeShare deletes a grant. When the last grant for a report is revoked
// the report is no longer marked shared.
func (s *ShareService) RevokeShare(ctx context.Context, shareID string) error {
	share, err := s.repos.Shares.GetByID(ctx, shareID)
	if err != nil {
		return err
	}
	if share == nil {
		return nil
	}

	if err := s.repos.Shares.Delete(ctx, shareID); err != nil {
		return err
	}

	remaining, err := s.repos.Shares.GetByReport(ctx, share.ReportID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		report, err := s.repos.Reports.GetByID(ctx, share.ReportID)
		if err != nil {
			return err
		}
		if report != nil {
			report.IsShared = false
			if err := s.repos.Reports.Save(ctx, report); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ShareService) signToken(reportID string, expiresAt *time.Time) (string, error) {
	claims := jwt.MapClaims{
		"jti":       uuid.New().String(),
		"report_id": reportID,
		"iat":       jwt.NewNumericDate(time.Now()),
	}
	if expiresAt != nil {
		claims["exp"] = jwt.NewNumericDate(*expiresAt)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return token, nil
}

func (s *ShareService) verifyToken(token string) error {
	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	return err
}

func contains(items models.StringSlice, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
