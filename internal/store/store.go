// Package store persists price series, optimization runs, and winning
// parameter sets. Bar data lives in Parquet files on disk; run results live
// in SQLite; best parameters live in a small JSON file.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vesta/internal/domain"
)

// BarStore reads and writes daily bar data.
type BarStore interface {
	// WriteBars persists bars, merging with any data already on disk.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns the bars for a symbol within [start, end], ordered by
	// timestamp.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all symbols with stored bar data, sorted.
	ListSymbols(ctx context.Context) ([]string, error)
}

// Run records one optimization invocation and its configuration.
type Run struct {
	ID         string
	StartedAt  time.Time
	Strategies []string
	Symbols    []string
	Days       int
	Workers    int
}

// NewRun creates a Run with a fresh unique ID.
func NewRun(strategies, symbols []string, days, workers int) Run {
	return Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Strategies: strategies,
		Symbols:    symbols,
		Days:       days,
		Workers:    workers,
	}
}

// ResultStore persists optimization runs and their per-job results.
type ResultStore interface {
	// CreateRun records a new optimization run.
	CreateRun(ctx context.Context, run Run) error

	// SaveResults appends job results to a run.
	SaveResults(ctx context.Context, runID string, results []domain.OptimizationResult) error

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// LoadResults returns all results recorded for a run, best score first.
	LoadResults(ctx context.Context, runID string) ([]domain.OptimizationResult, error)

	// Close releases the underlying database handle.
	Close() error
}
