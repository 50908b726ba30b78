package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/montanaflynn/stats"

	"vesta/internal/backtest"
	"vesta/internal/domain"
	"vesta/internal/strategy"
	"vesta/internal/util"
)

// BarSource supplies the price series for one symbol over a date window.
type BarSource interface {
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)
}

// Compile-time interface check.
var _ Evaluator = (*BacktestEvaluator)(nil)

// BacktestEvaluator is the production evaluator: it configures the strategy
// with the job's parameters, replays its signals through the trade simulator
// for every symbol, and averages the per-symbol metrics. The evaluation
// window is fixed at construction so identical jobs see identical data.
type BacktestEvaluator struct {
	bars   BarSource
	sim    *backtest.Simulator
	end    time.Time
	logger *slog.Logger
}

// NewBacktestEvaluator creates a BacktestEvaluator ending its window at the
// given date. A zero end defaults to the most recent trading day.
func NewBacktestEvaluator(bars BarSource, sim *backtest.Simulator, end time.Time, logger *slog.Logger) *BacktestEvaluator {
	if end.IsZero() {
		end = util.PrevTradingDay(time.Now().UTC())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BacktestEvaluator{bars: bars, sim: sim, end: end, logger: logger}
}

// Evaluate runs one (strategy, parameter-set) job over all symbols.
func (e *BacktestEvaluator) Evaluate(ctx context.Context, strat strategy.Strategy, params domain.ParameterSet, symbols []string, days int) (*domain.BacktestResult, error) {
	configured, err := strat.WithParams(params)
	if err != nil {
		return nil, err
	}
	start := util.TradingDayWindow(e.end, days)

	perSymbol := make([]domain.BacktestResult, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := e.bars.ReadBars(ctx, symbol, start, e.end)
		if err != nil {
			return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
		}
		signals := configured.Run(bars, symbol)
		perSymbol = append(perSymbol, e.sim.Run(symbol, strat.Name(), bars, signals))
	}
	return mergeResults(strat.Name(), symbols, perSymbol), nil
}

// mergeResults averages per-symbol metrics into one job-level result. Only
// completed simulations contribute to the averages; if none completed the
// merged result carries the first non-OK status.
func mergeResults(strategyName string, symbols []string, perSymbol []domain.BacktestResult) *domain.BacktestResult {
	merged := &domain.BacktestResult{
		Strategy: strategyName,
		Status:   domain.StatusOK,
	}
	if len(symbols) == 1 {
		merged.Symbol = symbols[0]
	}

	var returns, winRates, sharpes, drawdowns []float64
	for _, r := range perSymbol {
		if r.Status != domain.StatusOK {
			continue
		}
		returns = append(returns, r.TotalReturn)
		winRates = append(winRates, r.WinRate)
		sharpes = append(sharpes, r.SharpeRatio)
		drawdowns = append(drawdowns, r.MaxDrawdown)
		merged.TradeCount += r.TradeCount
	}

	if len(returns) == 0 {
		for _, r := range perSymbol {
			if r.Status != domain.StatusOK {
				merged.Status = r.Status
				merged.Error = r.Error
				break
			}
		}
		return merged
	}

	merged.TotalReturn, _ = stats.Mean(returns)
	merged.WinRate, _ = stats.Mean(winRates)
	merged.SharpeRatio, _ = stats.Mean(sharpes)
	merged.MaxDrawdown, _ = stats.Mean(drawdowns)
	return merged
}
