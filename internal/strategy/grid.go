package strategy

import (
	"fmt"
	"sort"

	"vesta/internal/domain"
)

// Grid maps parameter names to their ordered candidate values. Expansion
// produces the full Cartesian product in a deterministic order.
type Grid map[string][]float64

// Size returns the number of combinations the grid expands to.
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, values := range g {
		n *= len(values)
	}
	return n
}

// Expand returns the Cartesian product of all candidate values. Parameter
// names are iterated in sorted order so identical grids always expand to
// the same sequence.
func (g Grid) Expand() []domain.ParameterSet {
	if len(g) == 0 {
		return nil
	}

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	return expand(g, names, 0, domain.ParameterSet{})
}

func expand(g Grid, names []string, idx int, current domain.ParameterSet) []domain.ParameterSet {
	if idx >= len(names) {
		return []domain.ParameterSet{current.Clone()}
	}

	name := names[idx]
	var combos []domain.ParameterSet
	for _, v := range g[name] {
		current[name] = v
		combos = append(combos, expand(g, names, idx+1, current)...)
	}
	delete(current, name)
	return combos
}

// ValidCombinations expands the strategy's grid and filters the result
// through its validity predicate. An empty grid returns ErrEmptyInput;
// combinations failing validation are excluded silently (they are never
// dispatched as jobs).
func ValidCombinations(s Strategy) ([]domain.ParameterSet, error) {
	grid := s.Grid()
	if grid.Size() == 0 {
		return nil, fmt.Errorf("strategy %s: %w", s.Name(), domain.ErrEmptyInput)
	}

	all := grid.Expand()
	valid := make([]domain.ParameterSet, 0, len(all))
	for _, params := range all {
		if err := s.Validate(params); err != nil {
			continue
		}
		valid = append(valid, params)
	}
	return valid, nil
}
