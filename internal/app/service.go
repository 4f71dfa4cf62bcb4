// Package app wires the analysis service: submissions are deduplicated,
// queued, analyzed by a worker pool and the resulting reports stored.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/melee/internal/adapters/mq/queue"
	"github.com/okian/melee/internal/adapters/mq/worker"
	"github.com/okian/melee/internal/adapters/repository"
	"github.com/okian/melee/internal/domain/dedupe"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/model"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/internal/engine"
	"github.com/okian/melee/internal/profiles"
	"github.com/okian/melee/pkg/logger"
	"github.com/okian/melee/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize      = 1024
	defaultWorkerCount    = 4
	defaultDedupeSize     = 50_000
	defaultStoreCapacity  = 10_000
	defaultMaxEvents      = 500_000
	defaultMaxRecentLimit = 100
)

// Service owns the submission pipeline and the report store.
type Service struct {
	mu      sync.RWMutex
	started bool

	store   repository.Store
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	queueSize      int
	workerCount    int
	dedupeSize     int
	storeCapacity  int
	maxEvents      int
	maxRecentLimit int

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithQueueSize bounds the in-memory job queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithDedupeSize bounds the submission-hash cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithStoreCapacity bounds the number of retained reports.
func WithStoreCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.storeCapacity = n
		}
	}
}

// WithMaxEvents caps the number of events accepted per submission.
func WithMaxEvents(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxEvents = n
		}
	}
}

// WithMaxRecentLimit caps the page size of recent-report listings.
func WithMaxRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRecentLimit = n
		}
	}
}

// New creates a Service. Start must be called before submissions.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:      defaultQueueSize,
		workerCount:    defaultWorkerCount,
		dedupeSize:     defaultDedupeSize,
		storeCapacity:  defaultStoreCapacity,
		maxEvents:      defaultMaxEvents,
		maxRecentLimit: defaultMaxRecentLimit,
		log:            logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store, deduper, queue and worker pool and launches the
// workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.store = repository.NewMemoryStore(repository.WithCapacity(s.storeCapacity))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store, s.log)
	s.pool.Start(ctx)

	s.started = true
	s.log.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
	)
	return nil
}

// Stop shuts the pipeline down; queued jobs still in flight are drained by
// the workers before they exit.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.pool.Stop()
	if err := s.queue.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}

	s.started = false
	s.log.Info(ctx, "analysis service stopped")
	return nil
}

// Submit registers a log for analysis. contentHash deduplicates repeated
// submissions of the same payload; an empty hash skips deduplication. On
// success the assigned run id is returned; a duplicate returns duplicate
// true with an empty run id.
func (s *Service) Submit(ctx context.Context, job model.Job, contentHash string) (runID string, duplicate bool, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", false, ErrNotStarted
	}

	// Reject unknown profiles before queueing; a bad profile would only
	// surface as a silently missing report otherwise.
	if _, err := profiles.Lookup(job.Profile); err != nil {
		return "", false, err
	}

	if contentHash != "" && s.deduper.SeenAndRecord(ctx, contentHash) {
		metrics.RecordSubmissionDuplicate()
		return "", true, nil
	}

	job.RunID = uuid.New().String()
	if !s.queue.Enqueue(ctx, job) {
		// Allow a retry of the same payload.
		if contentHash != "" {
			s.deduper.Unrecord(ctx, contentHash)
		}
		return "", false, ErrBackpressure
	}

	s.log.Debug(ctx, "job accepted",
		logger.String("run_id", job.RunID),
		logger.String("profile", job.Profile),
		logger.Int("events", len(job.Events)),
	)
	return job.RunID, false, nil
}

// Analyze runs one job to completion: resolve the profile table, order the
// events, replay them through the engine and assemble the report. It
// implements worker.Analyzer.
func (s *Service) Analyze(ctx context.Context, job model.Job) (report.Report, error) {
	table, err := profiles.Lookup(job.Profile)
	if err != nil {
		return report.Report{}, err
	}

	// Stable sort keeps the relative order of same-timestamp events as
	// submitted.
	event.SortStable(job.Events)

	eng, err := engine.New(table, &job.Combatant, job.Encounter, engine.WithLogger(s.log))
	if err != nil {
		return report.Report{}, fmt.Errorf("build engine: %w", err)
	}

	start := time.Now()
	eng.Run(ctx, job.Events)
	metrics.RecordRunDuration(float64(time.Since(start).Milliseconds()))

	stats, suggestions := eng.Collect()
	profile := job.Profile
	if profile == "" {
		profile = "default"
	}

	return report.Report{
		RunID:       job.RunID,
		Profile:     profile,
		Spec:        job.Combatant.Spec,
		Encounter:   job.Encounter,
		Dispatched:  eng.Dispatched(),
		Skipped:     eng.Skipped(),
		Statistics:  stats,
		Suggestions: suggestions,
		CompletedAt: time.Now().UnixMilli(),
	}, nil
}

// Report returns the stored report for a run id.
func (s *Service) Report(ctx context.Context, runID string) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return report.Report{}, ErrNotStarted
	}
	return s.store.Get(ctx, runID)
}

// Recent returns up to n recent report summaries, newest first. n is
// clamped to the configured page-size cap.
func (s *Service) Recent(ctx context.Context, n int) ([]report.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	if n > s.maxRecentLimit {
		n = s.maxRecentLimit
	}
	return s.store.Recent(ctx, n)
}

// MaxEvents returns the per-submission event cap.
func (s *Service) MaxEvents() int {
	return s.maxEvents
}

// GetStats returns a snapshot of pipeline counters for the stats endpoint.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
	}
	if s.started {
		stats["queue_depth"] = s.queue.Len(ctx)
		stats["reports_stored"] = s.store.Count(ctx)
		stats["dedupe_entries"] = s.deduper.Size()
	}
	return stats
}
