// Package strategy defines the Strategy interface for signal-generating
// trading strategies, a Registry for managing implementations, and the
// declarative parameter grids used by the optimizer.
package strategy

import (
	"sort"

	"vesta/internal/domain"
)

// Strategy is the interface that all trading strategies must implement. A
// Strategy instance is bound to one concrete parameter set; WithParams
// derives a new instance for a different set.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Run replays the price series and returns the ordered, finite sequence
	// of trade signals the strategy generates for it.
	Run(bars []domain.Bar, symbol string) []domain.Signal

	// Grid returns the declarative parameter grid for this strategy.
	Grid() Grid

	// Validate reports whether a candidate parameter set satisfies the
	// strategy's validity rule. Invalid sets return ErrInvalidParameters
	// (wrapped with detail).
	Validate(params domain.ParameterSet) error

	// WithParams returns a new instance of the strategy configured with the
	// given parameter set. The set is validated first.
	WithParams(params domain.ParameterSet) (Strategy, error)
}

// Registry holds a named collection of strategies for lookup and enumeration.
// Registered instances carry their default parameters; the optimizer derives
// per-job instances via WithParams.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates whether
// the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
