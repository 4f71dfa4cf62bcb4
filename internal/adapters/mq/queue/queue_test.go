package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/melee/internal/domain/model"
)

func testJob(id string) model.Job {
	return model.Job{RunID: id, Profile: "fury"}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, testJob("job-1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	jobs := q.Dequeue(ctx)
	job := <-jobs
	if job.RunID != "job-1" {
		t.Errorf("expected job-1, got %q", job.RunID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testJob("job-1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testJob("job-2")) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, testJob("job-3")) {
		t.Error("expected enqueue to fail when full")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testJob("job-1")) {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, testJob("job-2")) {
		t.Error("expected enqueue to fail after close")
	}
	// Double close is a no-op.
	if err := q.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}

	// Buffered jobs drain, then the channel closes.
	jobs := q.Dequeue(ctx)
	if job, ok := <-jobs; !ok || job.RunID != "job-1" {
		t.Errorf("expected buffered job, got %v (ok=%v)", job.RunID, ok)
	}
	select {
	case _, ok := <-jobs:
		if ok {
			t.Error("expected channel to close")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for channel close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	producers := 10
	jobsPer := 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < jobsPer; j++ {
				job := testJob(fmt.Sprintf("job-%d-%d", id, j))
				for !q.Enqueue(ctx, job) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	consumed := make(map[string]struct{})
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		jobs := q.Dequeue(ctx)
		for job := range jobs {
			mu.Lock()
			consumed[job.RunID] = struct{}{}
			if len(consumed) == producers*jobsPer {
				mu.Unlock()
				return
			}
			mu.Unlock()
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for consumers")
	}

	if len(consumed) != producers*jobsPer {
		t.Errorf("expected %d unique jobs, got %d", producers*jobsPer, len(consumed))
	}
}
