package repository

import (
	"context"
	"sync"

	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultCapacity = 10_000
)

// MemoryStore implements Store with a bounded in-memory map. When capacity
// is exceeded the oldest report is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	reports  map[string]report.Report
	order    []string // insertion order, oldest first
	capacity int
}

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds the number of retained reports.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewMemoryStore creates an in-memory report store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		reports:  make(map[string]report.Report),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a completed report under its run id.
func (s *MemoryStore) Put(ctx context.Context, rep report.Report) error {
	if rep.RunID == "" {
		return ErrEmptyRunID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[rep.RunID]; !exists {
		s.order = append(s.order, rep.RunID)
	}
	s.reports[rep.RunID] = rep

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
		metrics.RecordStoreEviction()
	}

	metrics.UpdateStoreReports(len(s.reports))
	return nil
}

// Get returns the report for a run id.
func (s *MemoryStore) Get(ctx context.Context, runID string) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reports[runID]
	if !ok {
		return report.Report{}, ErrNotFound
	}
	return rep, nil
}

// Recent returns up to n report summaries, newest first.
func (s *MemoryStore) Recent(ctx context.Context, n int) ([]report.Summary, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.Summary, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		rep := s.reports[s.order[i]]
		out = append(out, rep.Summarize())
	}
	return out, nil
}

// Count returns the number of reports currently held.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
