// Package builtins provides the built-in strategy implementations that ship
// with the vesta engine: MACD cross, RSI threshold, Bollinger %B, and moving
// average cross.
package builtins

import (
	"fmt"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*MACDCross)(nil)

// macdGrid is the declarative parameter grid for MACDCross.
var macdGrid = strategy.Grid{
	"fast_period":   {8, 12, 16},
	"slow_period":   {20, 26, 32},
	"signal_period": {7, 9, 11},
}

// MACDCross generates a buy signal when the MACD line crosses above its
// signal line and a sell signal when it crosses below.
type MACDCross struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACDCross creates a MACDCross strategy with the given periods.
func NewMACDCross(fast, slow, signal int) *MACDCross {
	return &MACDCross{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// DefaultMACDCross returns a MACDCross with the conventional 12/26/9 setup.
func DefaultMACDCross() *MACDCross {
	return NewMACDCross(12, 26, 9)
}

// Name returns "macd_cross".
func (s *MACDCross) Name() string {
	return "macd_cross"
}

// Grid returns the candidate parameter values for optimization.
func (s *MACDCross) Grid() strategy.Grid {
	return macdGrid
}

// Validate requires fast_period < slow_period.
func (s *MACDCross) Validate(params domain.ParameterSet) error {
	fast, slow, err := requireParams2(params, "fast_period", "slow_period")
	if err != nil {
		return err
	}
	if _, ok := params["signal_period"]; !ok {
		return fmt.Errorf("%w: missing signal_period", domain.ErrInvalidParameters)
	}
	if fast >= slow {
		return fmt.Errorf("%w: fast_period %g must be < slow_period %g", domain.ErrInvalidParameters, fast, slow)
	}
	return nil
}

// WithParams returns a new MACDCross configured from the parameter set.
func (s *MACDCross) WithParams(params domain.ParameterSet) (strategy.Strategy, error) {
	if err := s.Validate(params); err != nil {
		return nil, err
	}
	return NewMACDCross(
		int(params["fast_period"]),
		int(params["slow_period"]),
		int(params["signal_period"]),
	), nil
}

// Run replays the price series and emits signals on MACD/signal crossings.
func (s *MACDCross) Run(bars []domain.Bar, symbol string) []domain.Signal {
	closes := closePrices(bars)
	macd, signal := strategy.MACD(closes, s.fastPeriod, s.slowPeriod, s.signalPeriod)

	var signals []domain.Signal
	for i := 1; i < len(bars); i++ {
		switch {
		case strategy.CrossedAbove(macd, signal, i):
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideBuy,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("MACD(%d,%d) crossed above signal(%d)", s.fastPeriod, s.slowPeriod, s.signalPeriod),
			})
		case strategy.CrossedBelow(macd, signal, i):
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideSell,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("MACD(%d,%d) crossed below signal(%d)", s.fastPeriod, s.slowPeriod, s.signalPeriod),
			})
		}
	}
	return signals
}
