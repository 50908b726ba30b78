package builtins

import (
	"fmt"
	"math"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

var _ strategy.Strategy = (*BollingerBounce)(nil)

var bollingerGrid = strategy.Grid{
	"period":         {10, 20, 30},
	"num_std":        {1.5, 2.0, 2.5},
	"buy_threshold":  {0.0, 0.05, 0.1},
	"sell_threshold": {0.9, 0.95, 1.0},
}

// BollingerBounce trades the %B oscillator: it buys when the price falls to
// the lower Bollinger band and sells when it reaches the upper band.
type BollingerBounce struct {
	period        int
	numStd        float64
	buyThreshold  float64
	sellThreshold float64
}

// NewBollingerBounce creates a BollingerBounce strategy with the given band
// settings and %B trigger levels.
func NewBollingerBounce(period int, numStd, buyThreshold, sellThreshold float64) *BollingerBounce {
	return &BollingerBounce{
		period:        period,
		numStd:        numStd,
		buyThreshold:  buyThreshold,
		sellThreshold: sellThreshold,
	}
}

// DefaultBollingerBounce returns a BollingerBounce with 20-period bands at 2
// standard deviations.
func DefaultBollingerBounce() *BollingerBounce {
	return NewBollingerBounce(20, 2.0, 0.05, 0.95)
}

// Name returns "bollinger_bounce".
func (s *BollingerBounce) Name() string {
	return "bollinger_bounce"
}

// Grid returns the candidate parameter values for optimization.
func (s *BollingerBounce) Grid() strategy.Grid {
	return bollingerGrid
}

// Validate requires buy_threshold < sell_threshold.
func (s *BollingerBounce) Validate(params domain.ParameterSet) error {
	buy, sell, err := requireParams2(params, "buy_threshold", "sell_threshold")
	if err != nil {
		return err
	}
	for _, name := range []string{"period", "num_std"} {
		if _, ok := params[name]; !ok {
			return fmt.Errorf("%w: missing %s", domain.ErrInvalidParameters, name)
		}
	}
	if buy >= sell {
		return fmt.Errorf("%w: buy_threshold %g must be < sell_threshold %g", domain.ErrInvalidParameters, buy, sell)
	}
	return nil
}

// WithParams returns a new BollingerBounce configured from the parameter set.
func (s *BollingerBounce) WithParams(params domain.ParameterSet) (strategy.Strategy, error) {
	if err := s.Validate(params); err != nil {
		return nil, err
	}
	return NewBollingerBounce(
		int(params["period"]),
		params["num_std"],
		params["buy_threshold"],
		params["sell_threshold"],
	), nil
}

// Run emits a buy when %B crosses down through the buy threshold and a sell
// when it crosses up through the sell threshold.
func (s *BollingerBounce) Run(bars []domain.Bar, symbol string) []domain.Signal {
	pctB := strategy.PercentB(closePrices(bars), s.period, s.numStd)

	var signals []domain.Signal
	for i := 1; i < len(bars); i++ {
		if math.IsNaN(pctB[i]) || math.IsNaN(pctB[i-1]) {
			continue
		}
		switch {
		case pctB[i-1] >= s.buyThreshold && pctB[i] < s.buyThreshold:
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideBuy,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("%%B %.2f below buy threshold %.2f", pctB[i], s.buyThreshold),
			})
		case pctB[i-1] <= s.sellThreshold && pctB[i] > s.sellThreshold:
			signals = append(signals, domain.Signal{
				Timestamp: bars[i].Timestamp,
				Side:      domain.SideSell,
				Price:     bars[i].Close,
				Reason:    fmt.Sprintf("%%B %.2f above sell threshold %.2f", pctB[i], s.sellThreshold),
			})
		}
	}
	return signals
}
