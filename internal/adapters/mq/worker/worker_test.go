package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/melee/internal/domain/model"
	"github.com/okian/melee/internal/domain/report"
)

// chanQueue is a minimal Queue for tests.
type chanQueue struct {
	jobs chan Job
}

func (q *chanQueue) Dequeue(ctx context.Context) <-chan Job { return q.jobs }

// stubAnalyzer runs a configurable function per job.
type stubAnalyzer struct {
	fn func(ctx context.Context, job Job) (report.Report, error)
}

func (a *stubAnalyzer) Analyze(ctx context.Context, job Job) (report.Report, error) {
	return a.fn(ctx, job)
}

// memStore records stored reports.
type memStore struct {
	mu      sync.Mutex
	reports []report.Report
}

func (s *memStore) Put(ctx context.Context, rep report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, rep)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func TestWorker_ProcessesJobs(t *testing.T) {
	q := &chanQueue{jobs: make(chan Job, 2)}
	store := &memStore{}
	analyzer := &stubAnalyzer{fn: func(ctx context.Context, job Job) (report.Report, error) {
		return report.Report{RunID: job.RunID}, nil
	}}

	w := NewWorker(q, analyzer, store, WithName("test-worker"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	q.jobs <- model.Job{RunID: "run-1"}
	q.jobs <- model.Job{RunID: "run-2"}

	waitFor(t, func() bool { return store.count() == 2 })

	shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	if err := w.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestWorker_AnalyzerErrorDoesNotStopWorker(t *testing.T) {
	q := &chanQueue{jobs: make(chan Job, 2)}
	store := &memStore{}
	analyzer := &stubAnalyzer{fn: func(ctx context.Context, job Job) (report.Report, error) {
		if job.RunID == "bad" {
			return report.Report{}, errors.New("profile exploded")
		}
		return report.Report{RunID: job.RunID}, nil
	}}

	w := NewWorker(q, analyzer, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	q.jobs <- model.Job{RunID: "bad"}
	q.jobs <- model.Job{RunID: "good"}

	waitFor(t, func() bool { return store.count() == 1 })

	if store.reports[0].RunID != "good" {
		t.Errorf("expected only the good run stored, got %q", store.reports[0].RunID)
	}
}

func TestWorker_PanicIsContained(t *testing.T) {
	q := &chanQueue{jobs: make(chan Job, 2)}
	store := &memStore{}
	analyzer := &stubAnalyzer{fn: func(ctx context.Context, job Job) (report.Report, error) {
		if job.RunID == "panicky" {
			panic("handler fault")
		}
		return report.Report{RunID: job.RunID}, nil
	}}

	w := NewWorker(q, analyzer, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	q.jobs <- model.Job{RunID: "panicky"}
	q.jobs <- model.Job{RunID: "survivor"}

	// The worker must survive the panic and process the next job.
	waitFor(t, func() bool { return store.count() == 1 })
	if store.reports[0].RunID != "survivor" {
		t.Errorf("expected the worker to survive, got %q", store.reports[0].RunID)
	}
}

func TestWorker_StopsOnQueueClose(t *testing.T) {
	q := &chanQueue{jobs: make(chan Job)}
	w := NewWorker(q, &stubAnalyzer{fn: func(ctx context.Context, job Job) (report.Report, error) {
		return report.Report{}, nil
	}}, &memStore{})

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	close(q.jobs)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on queue close")
	}
}

func TestPool_StartStop(t *testing.T) {
	q := &chanQueue{jobs: make(chan Job, 10)}
	store := &memStore{}
	analyzer := &stubAnalyzer{fn: func(ctx context.Context, job Job) (report.Report, error) {
		return report.Report{RunID: job.RunID}, nil
	}}

	p := NewPool(3, q, analyzer, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	for i := 0; i < 5; i++ {
		q.jobs <- model.Job{RunID: "run"}
	}
	waitFor(t, func() bool { return store.count() == 5 })

	p.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
