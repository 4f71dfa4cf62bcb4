// Package repository defines the report store interface and errors.
package repository

import (
	"context"

	"github.com/okian/melee/internal/domain/report"
)

// Store holds completed analysis reports for retrieval by run id.
type Store interface {
	// Put stores a completed report under its run id.
	Put(ctx context.Context, rep report.Report) error

	// Get returns the report for a run id.
	// Returns ErrNotFound when the run is unknown.
	Get(ctx context.Context, runID string) (report.Report, error)

	// Recent returns up to n report summaries, newest first.
	Recent(ctx context.Context, n int) ([]report.Summary, error)

	// Count returns the number of reports currently held.
	Count(ctx context.Context) int
}
