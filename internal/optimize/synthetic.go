package optimize

import (
	"context"
	"math/rand"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

var _ Evaluator = (*SyntheticEvaluator)(nil)

// SyntheticEvaluator produces plausible metrics without touching price data.
// Each job's generator is seeded from the parameter-set hash, so a fixed
// (strategy, parameter-set) tuple always yields the same result. It backs
// the optimizer's dry-run mode and the pool tests; production runs wire the
// BacktestEvaluator.
type SyntheticEvaluator struct{}

// Evaluate returns deterministic pseudo-random metrics for the job.
func (SyntheticEvaluator) Evaluate(ctx context.Context, strat strategy.Strategy, params domain.ParameterSet, symbols []string, days int) (*domain.BacktestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(int64(params.Hash())))

	result := &domain.BacktestResult{
		Strategy:    strat.Name(),
		TotalReturn: rng.Float64()*40 - 10,
		TradeCount:  5 + rng.Intn(46),
		WinRate:     rng.Float64() * 100,
		MaxDrawdown: -rng.Float64() * 30,
		SharpeRatio: rng.Float64()*3 - 0.5,
		Status:      domain.StatusOK,
	}
	if len(symbols) == 1 {
		result.Symbol = symbols[0]
	}
	return result, nil
}
