// Package report ranks backtest results and renders per-strategy aggregate
// statistics into tabular and narrative summaries.
package report

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"vesta/internal/domain"
)

// Report score weights. Unlike the optimizer's composite score this formula
// works in percent units, with the Sharpe ratio scaled up to a comparable
// magnitude.
const (
	reportWeightReturn  = 0.4
	reportWeightWinRate = 0.3
	reportWeightSharpe  = 0.3
	reportSharpeScale   = 30
)

// Score reduces a result to the report-level ranking scalar:
// total_return*0.4 + win_rate*0.3 + sharpe*30*0.3.
func Score(r *domain.BacktestResult) float64 {
	if r == nil {
		return 0
	}
	return r.TotalReturn*reportWeightReturn +
		r.WinRate*reportWeightWinRate +
		r.SharpeRatio*reportSharpeScale*reportWeightSharpe
}

// Rankings holds the top-N result rows per ranking metric. Zero-trade rows
// are excluded from every ranking but still counted in TotalRows.
type Rankings struct {
	ByReturn  []domain.BacktestResult
	ByWinRate []domain.BacktestResult
	BySharpe  []domain.BacktestResult
	ByScore   []domain.BacktestResult

	TotalRows  int
	RankedRows int
}

// Rank builds the top-N rankings from a collection of per-symbol/strategy
// results. Sorting is stable, so equal rows keep their input order and the
// output is deterministic.
func Rank(results []domain.BacktestResult, n int) *Rankings {
	ranked := make([]domain.BacktestResult, 0, len(results))
	for _, r := range results {
		if r.Status != domain.StatusOK || r.TradeCount == 0 {
			continue
		}
		ranked = append(ranked, r)
	}

	return &Rankings{
		ByReturn:   topN(ranked, n, func(r *domain.BacktestResult) float64 { return r.TotalReturn }),
		ByWinRate:  topN(ranked, n, func(r *domain.BacktestResult) float64 { return r.WinRate }),
		BySharpe:   topN(ranked, n, func(r *domain.BacktestResult) float64 { return r.SharpeRatio }),
		ByScore:    topN(ranked, n, Score),
		TotalRows:  len(results),
		RankedRows: len(ranked),
	}
}

func topN(results []domain.BacktestResult, n int, metric func(*domain.BacktestResult) float64) []domain.BacktestResult {
	out := make([]domain.BacktestResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return metric(&out[i]) > metric(&out[j])
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MetricStats holds the distribution of one metric across a strategy's rows.
type MetricStats struct {
	Mean   float64
	Median float64
	Std    float64
	Max    float64
	Min    float64
}

// StrategyAggregate holds per-strategy aggregate statistics over all symbols
// the strategy was evaluated on.
type StrategyAggregate struct {
	Strategy    string
	Symbols     int
	Return      MetricStats
	WinRate     MetricStats
	Sharpe      MetricStats
	TotalTrades int
	MeanTrades  float64
}

// Aggregate groups results by strategy and computes metric distributions.
// Zero-trade rows count toward Symbols and trade totals but are kept in the
// distributions too; unlike ranking, aggregation describes everything that
// ran. Output is sorted by strategy name.
func Aggregate(results []domain.BacktestResult) []StrategyAggregate {
	groups := make(map[string][]domain.BacktestResult)
	for _, r := range results {
		if r.Status != domain.StatusOK {
			continue
		}
		groups[r.Strategy] = append(groups[r.Strategy], r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]StrategyAggregate, 0, len(names))
	for _, name := range names {
		rows := groups[name]
		agg := StrategyAggregate{
			Strategy: name,
			Symbols:  len(rows),
		}

		returns := make([]float64, len(rows))
		winRates := make([]float64, len(rows))
		sharpes := make([]float64, len(rows))
		for i, r := range rows {
			returns[i] = r.TotalReturn
			winRates[i] = r.WinRate
			sharpes[i] = r.SharpeRatio
			agg.TotalTrades += r.TradeCount
		}
		agg.MeanTrades = float64(agg.TotalTrades) / float64(len(rows))
		agg.Return = metricStats(returns)
		agg.WinRate = metricStats(winRates)
		agg.Sharpe = metricStats(sharpes)
		out = append(out, agg)
	}
	return out
}

func metricStats(values []float64) MetricStats {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	sd := 0.0
	if len(values) > 1 {
		sd, _ = stats.StandardDeviationSample(values)
	}
	return MetricStats{Mean: mean, Median: median, Std: sd, Max: max, Min: min}
}

// Report is a fully assembled performance report ready for rendering or
// serialization.
type Report struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Rankings    *Rankings           `json:"-"`
	Aggregates  []StrategyAggregate `json:"aggregates"`
}

// Generator assembles reports with a configurable ranking depth.
type Generator struct {
	topN int
}

// NewGenerator creates a Generator keeping the top n rows per metric. A
// non-positive n falls back to 50.
func NewGenerator(n int) *Generator {
	if n <= 0 {
		n = 50
	}
	return &Generator{topN: n}
}

// Build assembles a Report from the result collection.
func (g *Generator) Build(results []domain.BacktestResult, now time.Time) *Report {
	return &Report{
		GeneratedAt: now,
		Rankings:    Rank(results, g.topN),
		Aggregates:  Aggregate(results),
	}
}
