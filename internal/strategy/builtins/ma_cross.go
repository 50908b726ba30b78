package builtins

import (
	"fmt"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

var _ strategy.Strategy = (*MACross)(nil)

var maCrossGrid = strategy.Grid{
	"short_window": {5, 10, 20},
	"long_window":  {50, 100, 200},
}

// MACross is the classic golden/death cross: it buys when the short moving
// average crosses above the long one and sells when it crosses below.
type MACross struct {
	shortWindow int
	longWindow  int
}

// NewMACross creates a MACross strategy with the given windows.
func NewMACross(short, long int) *MACross {
	return &MACross{
		shortWindow: short,
		longWindow:  long,
	}
}

// DefaultMACross returns a MACross with the conventional 20/50 setup.
func DefaultMACross() *MACross {
	return NewMACross(20, 50)
}

// Name returns "ma_cross".
func (s *MACross) Name() string {
	return "ma_cross"
}

// Grid returns the candidate parameter values for optimization.
func (s *MACross) Grid() strategy.Grid {
	return maCrossGrid
}

// Validate requires short_window < long_window.
func (s *MACross) Validate(params domain.ParameterSet) error {
	short, long, err := requireParams2(params, "short_window", "long_window")
	if err != nil {
		return err
	}
	if short >= long {
		return fmt.Errorf("%w: short_window %g must be < long_window %g", domain.ErrInvalidParameters, short, long)
	}
	return nil
}

// WithParams returns a new MACross configured from the parameter set.
func (s *MACross) WithParams(params domain.ParameterSet) (strategy.Strategy, error) {
	if err := s.Validate(params); err != nil {
		return nil, err
	}
	return NewMACross(
		int(params["short_window"]),
		int(params["long_window"]),
	), nil
}

// Run replays the price series and emits signals on moving average crossings.
func (s *MACross) Run(bars []domain.Bar, symbol string) []domain.Signal {
	closes := closePrices(bars)
	short := strategy.SMA(closes, s.shortWindow)
	long := strategy.SMA(closes, s.longWindow)

	var signals []domain.Signal
	for i := 1; i < len(bars); i++ {
		switch {
		case strategy.CrossedAbove(short, long, i):
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideBuy,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("SMA(%d) crossed above SMA(%d)", s.shortWindow, s.longWindow),
			})
		case strategy.CrossedBelow(short, long, i):
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideSell,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("SMA(%d) crossed below SMA(%d)", s.shortWindow, s.longWindow),
			})
		}
	}
	return signals
}
