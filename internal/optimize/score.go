package optimize

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"vesta/internal/domain"
)

// Composite score weights. Ratio-like metrics are normalized to fractions of
// 1.0 before weighting so that no term dominates on unit scale alone.
const (
	weightSharpe   = 0.4
	weightReturn   = 0.3
	weightDrawdown = 0.2
	weightWinRate  = 0.1
)

// CompositeScore reduces a backtest result to a single ranking scalar:
// sharpe*0.4 + return*0.3 + (1 - |drawdown|)*0.2 + win_rate*0.1, with
// return, drawdown, and win rate converted from percent to fractions.
func CompositeScore(r *domain.BacktestResult) float64 {
	if r == nil {
		return 0
	}
	retFrac := r.TotalReturn / 100
	winFrac := r.WinRate / 100
	ddFrac := r.MaxDrawdown / 100
	return r.SharpeRatio*weightSharpe +
		retFrac*weightReturn +
		(1-math.Abs(ddFrac))*weightDrawdown +
		winFrac*weightWinRate
}

// Summary aggregates the optimization outcome for one strategy: the winning
// parameter set plus score statistics over all valid jobs.
type Summary struct {
	Strategy   string                 `json:"strategy"`
	BestParams domain.ParameterSet    `json:"best_params"`
	BestScore  float64                `json:"best_score"`
	BestResult *domain.BacktestResult `json:"best_result,omitempty"`
	MeanScore  float64                `json:"mean_score"`
	StdScore   float64                `json:"std_score"`
	MinScore   float64                `json:"min_score"`
	MaxScore   float64                `json:"max_score"`
	ValidJobs  int                    `json:"valid_jobs"`
	TotalJobs  int                    `json:"total_jobs"`
}

// Summarize selects the best-scoring valid result for a strategy and computes
// score statistics across all valid jobs. Returns ErrNoValidResults when
// every job failed or was invalid.
func Summarize(strategyName string, results []domain.OptimizationResult) (*Summary, error) {
	var best *domain.OptimizationResult
	var scores []float64

	for i := range results {
		r := &results[i]
		if !r.Valid {
			continue
		}
		scores = append(scores, r.Score)
		if best == nil || r.Score > best.Score {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("strategy %s: %w", strategyName, domain.ErrNoValidResults)
	}

	mean, _ := stats.Mean(scores)
	min, _ := stats.Min(scores)
	max, _ := stats.Max(scores)
	sd := 0.0
	if len(scores) > 1 {
		sd, _ = stats.StandardDeviationSample(scores)
	}

	return &Summary{
		Strategy:   strategyName,
		BestParams: best.Params.Clone(),
		BestScore:  best.Score,
		BestResult: best.Result,
		MeanScore:  mean,
		StdScore:   sd,
		MinScore:   min,
		MaxScore:   max,
		ValidJobs:  len(scores),
		TotalJobs:  len(results),
	}, nil
}

// StrategyRank is a strategy summary with its cross-strategy rank attached.
type StrategyRank struct {
	Rank    int      `json:"rank"`
	Summary *Summary `json:"summary"`
}

// RankStrategies orders summaries by best score descending and assigns ranks
// 1..N. The sort is stable, so ties keep their encounter order.
func RankStrategies(summaries []*Summary) []StrategyRank {
	ordered := make([]*Summary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BestScore > ordered[j].BestScore
	})

	ranks := make([]StrategyRank, len(ordered))
	for i, s := range ordered {
		ranks[i] = StrategyRank{Rank: i + 1, Summary: s}
	}
	return ranks
}
