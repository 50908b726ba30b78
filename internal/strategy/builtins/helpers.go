package builtins

import (
	"fmt"

	"vesta/internal/domain"
	"vesta/internal/strategy"
)

// All registers every built-in strategy, at its default parameters, into the
// given registry.
func All(reg *strategy.Registry) {
	reg.Register(DefaultMACDCross())
	reg.Register(DefaultRSIThreshold())
	reg.Register(DefaultBollingerBounce())
	reg.Register(DefaultMACross())
}

func closePrices(bars []domain.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func requireParams2(params domain.ParameterSet, a, b string) (float64, float64, error) {
	av, ok := params[a]
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidParameters, a)
	}
	bv, ok := params[b]
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidParameters, b)
	}
	return av, bv, nil
}
