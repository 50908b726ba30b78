// Package optimize runs the parameter grid search: it expands each
// strategy's grid, fans the valid combinations out over a bounded worker
// pool, scores every result, and aggregates the winners.
package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

// Evaluator runs one backtest job for a fixed (strategy, parameter-set,
// symbol-set, day-count) tuple. The outcome must be reproducible for
// identical inputs.
type Evaluator interface {
	Evaluate(ctx context.Context, strat strategy.Strategy, params domain.ParameterSet, symbols []string, days int) (*domain.BacktestResult, error)
}

// Runner drains a queue of parameter combinations through a bounded worker
// pool. Jobs are independent; a failed job never aborts its siblings.
type Runner struct {
	evaluator  Evaluator
	workers    int
	jobTimeout time.Duration
	logger     *slog.Logger
}

// NewRunner creates a Runner with the given pool size. A non-positive
// workers value falls back to 4; a non-positive timeout disables the per-job
// deadline.
func NewRunner(evaluator Evaluator, workers int, jobTimeout time.Duration, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		evaluator:  evaluator,
		workers:    workers,
		jobTimeout: jobTimeout,
		logger:     logger,
	}
}

// Optimize evaluates every valid parameter combination of the strategy over
// the given symbols and window, returning one result per dispatched job
// sorted by score descending. Cancelling the context stops dispatching new
// jobs; in-flight jobs run to completion (bounded by the per-job timeout).
func (r *Runner) Optimize(ctx context.Context, strat strategy.Strategy, symbols []string, days int) ([]domain.OptimizationResult, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("optimize %s: %w: no symbols", strat.Name(), domain.ErrEmptyInput)
	}
	combos, err := strategy.ValidCombinations(strat)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", strat.Name(), err)
	}

	r.logger.Info("starting grid search",
		"strategy", strat.Name(),
		"combinations", len(combos),
		"symbols", len(symbols),
		"workers", r.workers)

	jobs := make(chan domain.ParameterSet)
	out := make(chan domain.OptimizationResult)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				out <- r.runJob(ctx, strat, params, symbols, days)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, params := range combos {
			select {
			case jobs <- params:
			case <-ctx.Done():
				r.logger.Warn("grid search cancelled",
					"strategy", strat.Name(), "err", ctx.Err())
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	// Single collector: the results slice and progress counter are touched
	// only here.
	var results []domain.OptimizationResult
	completed := 0
	for res := range out {
		results = append(results, res)
		completed++
		if completed%10 == 0 {
			r.logger.Info("grid search progress",
				"strategy", strat.Name(),
				"completed", completed,
				"total", len(combos))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	r.logger.Info("grid search finished",
		"strategy", strat.Name(),
		"completed", completed,
		"total", len(combos))
	return results, nil
}

// runJob evaluates one parameter combination. Any fault, including a panic
// from a broken strategy, is downgraded to a {valid:false, error} result at
// this boundary.
func (r *Runner) runJob(ctx context.Context, strat strategy.Strategy, params domain.ParameterSet, symbols []string, days int) (res domain.OptimizationResult) {
	res = domain.OptimizationResult{
		Strategy: strat.Name(),
		Params:   params,
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("optimization job panicked",
				"strategy", strat.Name(),
				"params", params.String(),
				"panic", p)
			res.Valid = false
			res.Error = fmt.Sprintf("job panic: %v", p)
		}
	}()

	jobCtx := ctx
	if r.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.jobTimeout)
		defer cancel()
	}

	result, err := r.evaluator.Evaluate(jobCtx, strat, params, symbols, days)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Valid = true
	res.Result = result
	res.Score = CompositeScore(result)
	return res
}
