// Package backtest replays strategy signals against a simulated capital
// account and reduces the resulting trade ledger into performance metrics.
package backtest

import (
	"fmt"
	"log/slog"
	"math"

	"vesta/internal/domain"
)

// Config holds the simulation parameters.
type Config struct {
	// InitialCapital is the starting cash balance for every simulation.
	InitialCapital float64

	// AllocationFraction is the fraction of cash committed on a BUY; the
	// remainder is headroom for fees.
	AllocationFraction float64

	// SellFeeRate is the flat fee charged on sell proceeds.
	SellFeeRate float64

	// MinBars is the minimum price series length to attempt a simulation.
	MinBars int

	// AnnualizationDays scales the Sharpe ratio to an annual figure.
	AnnualizationDays int

	// MaxTradeDetails bounds how many recent ledger entries a result carries.
	MaxTradeDetails int
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		InitialCapital:     1_000_000,
		AllocationFraction: 0.95,
		SellFeeRate:        0.003,
		MinBars:            50,
		AnnualizationDays:  252,
		MaxTradeDetails:    20,
	}
}

// Simulator replays a signal sequence against a single long-only position.
// Run is a pure fold over its inputs; identical inputs always produce
// identical results.
type Simulator struct {
	cfg    Config
	logger *slog.Logger
}

// NewSimulator creates a Simulator with the given configuration.
func NewSimulator(cfg Config, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{cfg: cfg, logger: logger}
}

// Run simulates the signal sequence against the price series and returns the
// fully analyzed result. A series shorter than MinBars yields a
// StatusInsufficientData result with zeroed metrics. An empty signal sequence
// yields a valid zero-activity result. A panic while replaying is recovered
// into a StatusError result; Run never propagates a fault.
func (s *Simulator) Run(symbol, strategyName string, bars []domain.Bar, signals []domain.Signal) (result domain.BacktestResult) {
	result = domain.BacktestResult{
		Symbol:   symbol,
		Strategy: strategyName,
		Status:   domain.StatusOK,
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("simulation panicked",
				"symbol", symbol, "strategy", strategyName, "panic", r)
			result = domain.BacktestResult{
				Symbol:   symbol,
				Strategy: strategyName,
				Status:   domain.StatusError,
				Error:    fmt.Sprintf("simulation panic: %v", r),
			}
		}
	}()

	if len(bars) < s.cfg.MinBars {
		result.Status = domain.StatusInsufficientData
		result.Error = fmt.Sprintf("%d bars, need %d", len(bars), s.cfg.MinBars)
		return result
	}

	ledger, returns, equity := s.replay(symbol, bars, signals)

	finalValue := s.cfg.InitialCapital
	if n := len(equity); n > 0 {
		finalValue = equity[n-1]
	}

	result.TotalReturn = TotalReturnPct(finalValue, s.cfg.InitialCapital)
	result.TradeCount = len(returns)
	result.WinRate = WinRatePct(returns)
	result.SharpeRatio = SharpeRatio(returns, s.cfg.AnnualizationDays)
	result.MaxDrawdown = MaxDrawdownPct(equity)
	result.Trades = tail(ledger, s.cfg.MaxTradeDetails)
	return result
}

// replay folds the signal sequence over the price series. It returns the
// trade ledger, the realized per-trade returns for closed positions, and the
// per-bar equity curve (cash plus mark-to-market position value).
func (s *Simulator) replay(symbol string, bars []domain.Bar, signals []domain.Signal) ([]domain.Trade, []float64, []float64) {
	cash := s.cfg.InitialCapital
	shares := 0.0

	var ledger []domain.Trade
	var returns []float64
	equity := make([]float64, 0, len(bars))

	next := 0
	for _, bar := range bars {
		for next < len(signals) && !signals[next].Timestamp.After(bar.Timestamp) {
			sig := signals[next]
			next++

			switch sig.Side {
			case domain.SideBuy:
				if shares > 0 {
					continue
				}
				buyingPower := cash * s.cfg.AllocationFraction
				qty := math.Floor(buyingPower / sig.Price)
				if qty < 1 {
					continue
				}
				cash -= qty * sig.Price
				shares = qty
				ledger = append(ledger, domain.Trade{
					Date:   sig.Timestamp,
					Side:   domain.SideBuy,
					Price:  sig.Price,
					Shares: int64(qty),
					Reason: sig.Reason,
					Symbol: symbol,
				})

			case domain.SideSell:
				if shares == 0 {
					continue
				}
				proceeds := shares * sig.Price * (1 - s.cfg.SellFeeRate)
				cash += proceeds
				returns = append(returns, proceeds/s.cfg.InitialCapital-1)
				ledger = append(ledger, domain.Trade{
					Date:   sig.Timestamp,
					Side:   domain.SideSell,
					Price:  sig.Price,
					Shares: int64(shares),
					Reason: sig.Reason,
					Symbol: symbol,
				})
				shares = 0
			}
		}
		equity = append(equity, cash+shares*bar.Close)
	}

	// Forced liquidation at the last close if still long.
	if shares > 0 && len(bars) > 0 {
		last := bars[len(bars)-1]
		proceeds := shares * last.Close * (1 - s.cfg.SellFeeRate)
		cash += proceeds
		returns = append(returns, proceeds/s.cfg.InitialCapital-1)
		ledger = append(ledger, domain.Trade{
			Date:   last.Timestamp,
			Side:   domain.SideSell,
			Price:  last.Close,
			Shares: int64(shares),
			Reason: "end of window liquidation",
			Symbol: symbol,
		})
		shares = 0
		equity[len(equity)-1] = cash
	}

	return ledger, returns, equity
}

func tail(trades []domain.Trade, n int) []domain.Trade {
	if n <= 0 || len(trades) <= n {
		return trades
	}
	return trades[len(trades)-n:]
}
