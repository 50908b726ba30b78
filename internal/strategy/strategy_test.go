package strategy

import (
	"fmt"
	"testing"

	"vesta/internal/domain"
)

// fakeStrategy is a minimal Strategy for registry and grid tests. Its
// validity rule requires a < b.
type fakeStrategy struct {
	name string
	grid Grid
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Run(bars []domain.Bar, symbol string) []domain.Signal { return nil }

func (f *fakeStrategy) Grid() Grid { return f.grid }

func (f *fakeStrategy) Validate(params domain.ParameterSet) error {
	if params["a"] >= params["b"] {
		return fmt.Errorf("%w: a must be < b", domain.ErrInvalidParameters)
	}
	return nil
}

func (f *fakeStrategy) WithParams(params domain.ParameterSet) (Strategy, error) {
	if err := f.Validate(params); err != nil {
		return nil, err
	}
	return f, nil
}

func TestRegistryRegisterGet(t *testing.T) {
	reg := NewRegistry()
	s := &fakeStrategy{name: "fake"}
	reg.Register(s)

	got, ok := reg.Get("fake")
	if !ok {
		t.Fatal("Get returned not found for registered strategy")
	}
	if got.Name() != "fake" {
		t.Errorf("Get returned strategy %q, want %q", got.Name(), "fake")
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get should not find unregistered strategy")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeStrategy{name: "zeta"})
	reg.Register(&fakeStrategy{name: "alpha"})
	reg.Register(&fakeStrategy{name: "mid"})

	got := reg.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
