package builtins

import (
	"fmt"
	"math"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

var _ strategy.Strategy = (*RSIThreshold)(nil)

var rsiGrid = strategy.Grid{
	"period":     {7, 14, 21},
	"oversold":   {20, 25, 30},
	"overbought": {70, 75, 80},
}

// RSIThreshold buys when the RSI drops below the oversold level and sells
// when it rises above the overbought level.
type RSIThreshold struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSIThreshold creates an RSIThreshold strategy with the given levels.
func NewRSIThreshold(period int, oversold, overbought float64) *RSIThreshold {
	return &RSIThreshold{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
	}
}

// DefaultRSIThreshold returns an RSIThreshold with the conventional 14/30/70
// setup.
func DefaultRSIThreshold() *RSIThreshold {
	return NewRSIThreshold(14, 30, 70)
}

// Name returns "rsi_threshold".
func (s *RSIThreshold) Name() string {
	return "rsi_threshold"
}

// Grid returns the candidate parameter values for optimization.
func (s *RSIThreshold) Grid() strategy.Grid {
	return rsiGrid
}

// Validate requires oversold < overbought.
func (s *RSIThreshold) Validate(params domain.ParameterSet) error {
	oversold, overbought, err := requireParams2(params, "oversold", "overbought")
	if err != nil {
		return err
	}
	if _, ok := params["period"]; !ok {
		return fmt.Errorf("%w: missing period", domain.ErrInvalidParameters)
	}
	if oversold >= overbought {
		return fmt.Errorf("%w: oversold %g must be < overbought %g", domain.ErrInvalidParameters, oversold, overbought)
	}
	return nil
}

// WithParams returns a new RSIThreshold configured from the parameter set.
func (s *RSIThreshold) WithParams(params domain.ParameterSet) (strategy.Strategy, error) {
	if err := s.Validate(params); err != nil {
		return nil, err
	}
	return NewRSIThreshold(
		int(params["period"]),
		params["oversold"],
		params["overbought"],
	), nil
}

// Run emits a buy when the RSI crosses down through the oversold level and a
// sell when it crosses up through the overbought level.
func (s *RSIThreshold) Run(bars []domain.Bar, symbol string) []domain.Signal {
	rsi := strategy.RSI(closePrices(bars), s.period)

	var signals []domain.Signal
	for i := 1; i < len(bars); i++ {
		if math.IsNaN(rsi[i]) || math.IsNaN(rsi[i-1]) {
			continue
		}
		switch {
		case rsi[i-1] >= s.oversold && rsi[i] < s.oversold:
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideBuy,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("RSI(%d) %.1f below oversold %.0f", s.period, rsi[i], s.oversold),
			})
		case rsi[i-1] <= s.overbought && rsi[i] > s.overbought:
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideSell,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("RSI(%d) %.1f above overbought %.0f", s.period, rsi[i], s.overbought),
			})
		}
	}
	return signals
}
