package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// TotalReturnPct returns the portfolio return over the window as a percentage
// of initial capital.
func TotalReturnPct(finalValue, initialCapital float64) float64 {
	if initialCapital == 0 {
		return 0
	}
	return (finalValue/initialCapital - 1) * 100
}

// WinRatePct returns the percentage of closed trades with a positive return,
// or 0 when there are no closed trades.
func WinRatePct(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns)) * 100
}

// SharpeRatio returns the annualized Sharpe ratio of the per-trade returns.
// Fewer than 2 returns, or zero volatility, yields 0.
func SharpeRatio(returns []float64, annualizationDays int) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil || sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(float64(annualizationDays))
}

// MaxDrawdownPct returns the maximum peak-to-trough decline of the equity
// curve as a negative percentage. A curve that never declines returns 0.
func MaxDrawdownPct(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0]
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return -maxDD * 100
}
