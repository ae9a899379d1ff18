package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/candorhq/candor/models"
	"github.com/google/uuid"
)

// NewMemoryRepositories builds in-memory repositories. They back the server
// when no database is configured and serve as test fixtures. Writes are
// last-writer-wins per id, matching the store's documented isolation level.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Sessions: &MemorySessionRepository{table: newMemTable()},
		Reports:  &MemoryReportRepository{table: newMemTable()},
		Comments: &MemoryCommentRepository{table: newMemTable()},
		Versions: &MemoryVersionRepository{table: newMemTable()},
		Shares:   &MemoryShareRepository{table: newMemTable()},
	}
}

// memTable is a flat keyed collection of JSON-encoded records. Encoding on
// the way in and out gives value semantics: callers never share memory with
// the stored record.
type memTable struct {
	mu    sync.RWMutex
	rows  map[string]json.RawMessage
	order []string // insertion order, stands in for ORDER BY created_at
}

func newMemTable() *memTable {
	return &memTable{rows: make(map[string]json.RawMessage)}
}

func (t *memTable) put(id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = raw
	return nil
}

func (t *memTable) get(id string, out any) (bool, error) {
	t.mu.RLock()
	raw, ok := t.rows[id]
	t.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode record: %w", err)
	}
	return true, nil
}

func (t *memTable) delete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// each decodes every record in insertion order into out via fn.
func (t *memTable) each(fn func(raw json.RawMessage) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if err := fn(t.rows[id]); err != nil {
			return err
		}
	}
	return nil
}

// merge applies a partial update: the stored JSON object is patched with the
// given fields (keys are the json/column names) and updated_at is refreshed.
func (t *memTable) merge(id string, fields map[string]any) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, ok := t.rows[id]
	if !ok {
		return false, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, fmt.Errorf("failed to decode record: %w", err)
	}
	for k, v := range fields {
		obj[k] = v
	}
	obj["updated_at"] = time.Now()
	patched, err := json.Marshal(obj)
	if err != nil {
		return false, fmt.Errorf("failed to encode record: %w", err)
	}
	t.rows[id] = patched
	return true, nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

func stampTimes(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// Session operations

type MemorySessionRepository struct {
	table *memTable
}

func (r *MemorySessionRepository) Save(_ context.Context, session *models.InterviewSession) error {
	ensureID(&session.ID)
	stampTimes(&session.CreatedAt, &session.UpdatedAt)
	return r.table.put(session.ID, session)
}

func (r *MemorySessionRepository) GetAll(_ context.Context) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.table.each(func(raw json.RawMessage) error {
		var s models.InterviewSession
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		sessions = append(sessions, s)
		return nil
	})
	return sessions, err
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	ok, err := r.table.get(id, &session)
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

func (r *MemorySessionRepository) Update(_ context.Context, id string, fields map[string]any) error {
	_, err := r.table.merge(id, fields)
	return err
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.table.delete(id)
	return nil
}

func (r *MemorySessionRepository) GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewSession, error) {
	return r.filter(ctx, func(s models.InterviewSession) bool { return s.CandidateID == candidateID })
}

func (r *MemorySessionRepository) GetByJob(ctx context.Context, jobID string) ([]models.InterviewSession, error) {
	return r.filter(ctx, func(s models.InterviewSession) bool { return s.JobID == jobID })
}

func (r *MemorySessionRepository) GetByStatus(ctx context.Context, status models.SessionStatus) ([]models.InterviewSession, error) {
	return r.filter(ctx, func(s models.InterviewSession) bool { return s.Status == status })
}

func (r *MemorySessionRepository) filter(ctx context.Context, keep func(models.InterviewSession) bool) ([]models.InterviewSession, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.InterviewSession
	for _, s := range all {
		if keep(s) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// Report operations

type MemoryReportRepository struct {
	table *memTable
}

func (r *MemoryReportRepository) Save(_ context.Context, report *models.InterviewReport) error {
	ensureID(&report.ID)
	stampTimes(&report.CreatedAt, &report.UpdatedAt)
	return r.table.put(report.ID, report)
}

func (r *MemoryReportRepository) GetAll(_ context.Context) ([]models.InterviewReport, error) {
	var reports []models.InterviewReport
	err := r.table.each(func(raw json.RawMessage) error {
		var rep models.InterviewReport
		if err := json.Unmarshal(raw, &rep); err != nil {
			return err
		}
		reports = append(reports, rep)
		return nil
	})
	return reports, err
}

func (r *MemoryReportRepository) GetByID(_ context.Context, id string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	ok, err := r.table.get(id, &report)
	if err != nil || !ok {
		return nil, err
	}
	return &report, nil
}

func (r *MemoryReportRepository) Update(_ context.Context, id string, fields map[string]any) error {
	_, err := r.table.merge(id, fields)
	return err
}

func (r *MemoryReportRepository) Delete(_ context.Context, id string) error {
	r.table.delete(id)
	return nil
}

func (r *MemoryReportRepository) GetBySession(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	matched, err := r.filter(ctx, func(rep models.InterviewReport) bool { return rep.SessionID == sessionID })
	if err != nil || len(matched) == 0 {
		return nil, err
	}
	return &matched[0], nil
}

func (r *MemoryReportRepository) GetByCandidate(ctx context.Context, candidateID string) ([]models.InterviewReport, error) {
	return r.filter(ctx, func(rep models.InterviewReport) bool { return rep.CandidateID == candidateID })
}

func (r *MemoryReportRepository) GetByJob(ctx context.Context, jobID string) ([]models.InterviewReport, error) {
	return r.filter(ctx, func(rep models.InterviewReport) bool { return rep.JobID == jobID })
}

func (r *MemoryReportRepository) GetByStatus(ctx context.Context, status models.ReportStatus) ([]models.InterviewReport, error) {
	return r.filter(ctx, func(rep models.InterviewReport) bool { return rep.Status == status })
}

func (r *MemoryReportRepository) filter(ctx context.Context, keep func(models.InterviewReport) bool) ([]models.InterviewReport, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.InterviewReport
	for _, rep := range all {
		if keep(rep) {
			matched = append(matched, rep)
		}
	}
	return matched, nil
}

// Comment operations

type MemoryCommentRepository struct {
	table *memTable
}

func (r *MemoryCommentRepository) Save(_ context.Context, comment *models.ReportComment) error {
	ensureID(&comment.ID)
	stampTimes(&comment.CreatedAt, &comment.UpdatedAt)
	return r.table.put(comment.ID, comment)
}

func (r *MemoryCommentRepository) GetAll(_ context.Context) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	err := r.table.each(func(raw json.RawMessage) error {
		var c models.ReportComment
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		comments = append(comments, c)
		return nil
	})
	return comments, err
}

func (r *MemoryCommentRepository) GetByID(_ context.Context, id string) (*models.ReportComment, error) {
	var comment models.ReportComment
	ok, err := r.table.get(id, &comment)
	if err != nil || !ok {
		return nil, err
	}
	return &comment, nil
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	r.table.delete(id)
	return nil
}

func (r *MemoryCommentRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.ReportComment
	for _, c := range all {
		if c.ReportID == reportID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (r *MemoryCommentRepository) GetByParent(ctx context.Context, parentID string) ([]models.ReportComment, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.ReportComment
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == parentID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Version operations

type MemoryVersionRepository struct {
	table *memTable
}

func (r *MemoryVersionRepository) Save(_ context.Context, version *models.ReportVersion) error {
	ensureID(&version.ID)
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now()
	}
	return r.table.put(version.ID, version)
}

func (r *MemoryVersionRepository) GetAll(_ context.Context) ([]models.ReportVersion, error) {
	var versions []models.ReportVersion
	err := r.table.each(func(raw json.RawMessage) error {
		var v models.ReportVersion
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		versions = append(versions, v)
		return nil
	})
	return versions, err
}

func (r *MemoryVersionRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportVersion, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.ReportVersion
	for _, v := range all {
		if v.ReportID == reportID {
			matched = append(matched, v)
		}
	}
	// Insertion order and version order coincide for append-only snapshots,
	// but sort anyway to match the SQL implementation.
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].Version < matched[j-1].Version; j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}
	return matched, nil
}

// Share operations

type MemoryShareRepository struct {
	table *memTable
}

func (r *MemoryShareRepository) Save(_ context.Context, share *models.ReportShare) error {
	ensureID(&share.ID)
	stampTimes(&share.CreatedAt, &share.UpdatedAt)
	return r.table.put(share.ID, share)
}

func (r *MemoryShareRepository) GetAll(_ context.Context) ([]models.ReportShare, error) {
	var shares []models.ReportShare
	err := r.table.each(func(raw json.RawMessage) error {
		var s models.ReportShare
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		shares = append(shares, s)
		return nil
	})
	return shares, err
}

func (r *MemoryShareRepository) GetByID(_ context.Context, id string) (*models.ReportShare, error) {
	var share models.ReportShare
	ok, err := r.table.get(id, &share)
	if err != nil || !ok {
		return nil, err
	}
	return &share, nil
}

func (r *MemoryShareRepository) Delete(_ context.Context, id string) error {
	r.table.delete(id)
	return nil
}

func (r *MemoryShareRepository) GetByReport(ctx context.Context, reportID string) ([]models.ReportShare, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []models.ReportShare
	for _, s := range all {
		if s.ReportID == reportID {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func (r *MemoryShareRepository) GetByToken(ctx context.Context, token string) (*models.ReportShare, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.ShareToken == token {
			share := s
			return &share, nil
		}
	}
	return nil, nil
}
