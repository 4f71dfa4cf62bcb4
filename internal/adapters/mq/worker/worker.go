// Package worker runs queued analysis jobs and stores the resulting
// reports.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/melee/internal/domain/model"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/pkg/logger"
	"github.com/okian/melee/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Job is the payload workers read off the queue.
type Job = model.Job

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Analyzer runs one analysis job to completion.
type Analyzer interface {
	Analyze(ctx context.Context, job Job) (report.Report, error)
}

// Store persists completed reports.
type Store interface {
	Put(ctx context.Context, rep report.Report) error
}

// Worker processes jobs from the queue until stopped.
type Worker struct {
	queue    Queue
	analyzer Analyzer
	store    Store
	name     string

	shutdown chan struct{}
	done     chan struct{}

	log logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.log = l
		}
	}
}

// NewWorker creates a worker bound to a queue, an analyzer and a store.
func NewWorker(queue Queue, analyzer Analyzer, store Store, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		analyzer: analyzer,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until the context is canceled, the queue is
// closed, or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				metrics.RecordWorkerError()
				metrics.RecordRunFailed()
				w.log.Error(ctx, "analysis job failed",
					logger.String("run_id", job.RunID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one analysis job. A panicking module aborts the job
// but never the worker.
func (w *Worker) processJob(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
		if r := recover(); r != nil {
			err = fmt.Errorf("run %s: module fault: %v", job.RunID, r)
		}
	}()

	rep, err := w.analyzer.Analyze(ctx, job)
	if err != nil {
		return fmt.Errorf("analyze run %s: %w", job.RunID, err)
	}

	if err := w.store.Put(ctx, rep); err != nil {
		return fmt.Errorf("store run %s: %w", job.RunID, err)
	}

	metrics.RecordRunCompleted()
	return nil
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	log     logger.Logger
}

// NewPool creates a pool of count workers.
func NewPool(count int, queue Queue, analyzer Analyzer, store Store, log logger.Logger) *Pool {
	if count < 1 {
		count = runtime.NumCPU()
		if count < 1 {
			count = defaultWorkerCount
		}
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		workers: make([]*Worker, count),
		log:     log,
	}
	for i := 0; i < count; i++ {
		p.workers[i] = NewWorker(
			queue,
			analyzer,
			store,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(log),
		)
	}

	metrics.UpdateWorkerCount(count)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts down every worker, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		if err := w.Shutdown(ctx); err != nil {
			p.log.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
		}
		cancel()
	}
}
