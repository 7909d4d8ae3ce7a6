// internal/collection/manager.go
//
// The collection manager owns the in-memory report collection and keeps it
// synchronized with the persistent store. Every mutation refreshes the
// affected report's revision date and rewrites the whole collection; the
// in-memory state stays authoritative for the session even when a write
// fails.

package collection

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/store"
)

// ErrNotFound is returned by Get when no report carries the requested id.
var ErrNotFound = errors.New("collection: report not found")

// Manager serializes all access to the report collection.
type Manager struct {
	store  store.Store
	key    string
	logger *zap.Logger

	mu      sync.Mutex
	reports []report.Report
}

// Option customizes a Manager during construction.
type Option func(*Manager)

// WithKey overrides the storage key, mainly for tests.
func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// NewManager loads the stored collection and returns a manager over it.
func NewManager(st store.Store, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: st, key: store.Key, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	reports, err := st.Load(m.key)
	if err != nil {
		return nil, fmt.Errorf("collection: load: %w", err)
	}
	m.reports = reports
	logger.Info("collection loaded", zap.Int("reports", len(reports)))
	return m, nil
}

// ListAll returns a copy of the collection sorted for presentation:
// ascending next revision date, reports without a pending revision last,
// ties broken by newest creation first.
func (m *Manager) ListAll() []report.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]report.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r.Clone())
	}
	slices.SortStableFunc(out, func(a, b report.Report) int {
		switch {
		case a.NextRevisionDate == nil && b.NextRevisionDate == nil:
		case a.NextRevisionDate == nil:
			return 1
		case b.NextRevisionDate == nil:
			return -1
		case a.NextRevisionDate.Before(*b.NextRevisionDate):
			return -1
		case b.NextRevisionDate.Before(*a.NextRevisionDate):
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Get returns a copy of the report with the given id.
func (m *Manager) Get(id string) (report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return report.Report{}, ErrNotFound
}

// Len reports how many reports the collection holds.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// Upsert stores the report: an existing id is replaced in place, a new one
// is appended. The revision date is always recomputed from the incoming
// state before the collection is persisted.
func (m *Manager) Upsert(r report.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r = r.Clone()
	r.NextRevisionDate = report.NextRevision(r)

	replaced := false
	for i := range m.reports {
		if m.reports[i].ID == r.ID {
			m.reports[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		m.reports = append(m.reports, r)
	}
	m.logger.Info("report upserted",
		zap.String("id", r.ID),
		zap.Bool("new", !replaced),
		zap.Int("reports", len(m.reports)))
	return m.persist()
}

// Delete removes the report with the given id. An unknown id is a silent
// no-op and triggers no write.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reports {
		if m.reports[i].ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			m.logger.Info("report deleted", zap.String("id", id), zap.Int("reports", len(m.reports)))
			return m.persist()
		}
	}
	return nil
}

// persist writes the whole collection; callers hold the mutex. The
// in-memory collection is kept even when the write fails, so the user keeps
// seeing current data, but the failure is surfaced because it means the
// session's edits may not survive a reload.
func (m *Manager) persist() error {
	if err := m.store.Save(m.key, m.reports); err != nil {
		m.logger.Error("persist failed", zap.Error(err))
		return fmt.Errorf("collection: persist: %w", err)
	}
	return nil
}
