package strategy

import (
	"errors"
	"testing"

	"vesta/internal/domain"
)

func TestGridSize(t *testing.T) {
	g := Grid{
		"a": {1, 2, 3},
		"b": {10, 20},
	}
	if got := g.Size(); got != 6 {
		t.Errorf("Size = %d, want 6", got)
	}

	if got := (Grid{}).Size(); got != 0 {
		t.Errorf("empty grid Size = %d, want 0", got)
	}
}

func TestGridExpand(t *testing.T) {
	g := Grid{
		"b": {10, 20},
		"a": {1, 2},
	}
	combos := g.Expand()
	if len(combos) != 4 {
		t.Fatalf("Expand returned %d combinations, want 4", len(combos))
	}

	// Names iterate in sorted order, so "a" varies slowest.
	want := []domain.ParameterSet{
		{"a": 1, "b": 10},
		{"a": 1, "b": 20},
		{"a": 2, "b": 10},
		{"a": 2, "b": 20},
	}
	for i, w := range want {
		for name, v := range w {
			if combos[i][name] != v {
				t.Errorf("combo %d: %s = %g, want %g", i, name, combos[i][name], v)
			}
		}
	}
}

func TestGridExpandCombosIndependent(t *testing.T) {
	g := Grid{"x": {1, 2}}
	combos := g.Expand()
	combos[0]["x"] = 99
	if combos[1]["x"] == 99 {
		t.Error("combinations share underlying map")
	}
}

func TestValidCombinationsFilters(t *testing.T) {
	s := &fakeStrategy{
		name: "fake",
		grid: Grid{
			"a": {1, 2, 3},
			"b": {2, 3},
		},
	}
	combos, err := ValidCombinations(s)
	if err != nil {
		t.Fatalf("ValidCombinations returned error: %v", err)
	}

	// Of the 6 combinations, only those with a < b survive:
	// (1,2) (1,3) (2,3).
	if len(combos) != 3 {
		t.Fatalf("ValidCombinations returned %d combinations, want 3", len(combos))
	}
	for _, c := range combos {
		if c["a"] >= c["b"] {
			t.Errorf("invalid combination survived filtering: %v", c)
		}
	}
}

func TestValidCombinationsEmptyGrid(t *testing.T) {
	s := &fakeStrategy{name: "fake", grid: Grid{}}
	_, err := ValidCombinations(s)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("ValidCombinations on empty grid: err = %v, want ErrEmptyInput", err)
	}
}
