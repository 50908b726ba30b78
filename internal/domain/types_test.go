package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestParameterSetClone(t *testing.T) {
	ps := ParameterSet{"fast_period": 12, "slow_period": 26}
	clone := ps.Clone()

	clone["fast_period"] = 8
	if ps["fast_period"] != 12 {
		t.Errorf("Clone shares storage with original: fast_period = %v, want 12", ps["fast_period"])
	}
	if clone["slow_period"] != 26 {
		t.Errorf("clone slow_period = %v, want 26", clone["slow_period"])
	}
}

func TestParameterSetHashDeterministic(t *testing.T) {
	a := ParameterSet{"short_window": 10, "long_window": 50}
	b := ParameterSet{"long_window": 50, "short_window": 10}

	if a.Hash() != b.Hash() {
		t.Errorf("Hash depends on insertion order: %d != %d", a.Hash(), b.Hash())
	}

	c := ParameterSet{"short_window": 10, "long_window": 60}
	if a.Hash() == c.Hash() {
		t.Error("distinct parameter sets produced identical hashes")
	}
}

func TestParameterSetString(t *testing.T) {
	ps := ParameterSet{"slow_period": 26, "fast_period": 12}
	got := ps.String()
	want := "fast_period=12 slow_period=26"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOptimizationResultRoundTrip(t *testing.T) {
	orig := OptimizationResult{
		Strategy: "macd_cross",
		Params:   ParameterSet{"fast_period": 12, "slow_period": 26, "signal_period": 9},
		Valid:    true,
		Score:    1.2345678,
		Result: &BacktestResult{
			Symbol:      "AAPL",
			Strategy:    "macd_cross",
			TotalReturn: 9.1865,
			TradeCount:  2,
			WinRate:     100,
			MaxDrawdown: -3.25,
			SharpeRatio: 1.8,
			Status:      StatusOK,
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got OptimizationResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	const tol = 1e-6
	if math.Abs(got.Score-orig.Score) > tol {
		t.Errorf("Score round-trip: got %v, want %v", got.Score, orig.Score)
	}
	for k, v := range orig.Params {
		if math.Abs(got.Params[k]-v) > tol {
			t.Errorf("Params[%q] round-trip: got %v, want %v", k, got.Params[k], v)
		}
	}
	if got.Result == nil || got.Result.Symbol != "AAPL" {
		t.Error("Result did not survive round-trip")
	}
}

func TestTradeZeroValue(t *testing.T) {
	tr := Trade{}
	if tr.Shares != 0 || tr.Price != 0 {
		t.Error("expected zero Shares/Price for zero-value Trade")
	}
	if !tr.Date.IsZero() {
		t.Error("expected zero Date for zero-value Trade")
	}

	now := time.Now()
	tr = Trade{Date: now, Side: SideBuy, Price: 10000, Shares: 95, Reason: "golden cross", Symbol: "AAPL"}
	if tr.Side != SideBuy {
		t.Errorf("tr.Side = %q, want %q", tr.Side, SideBuy)
	}
}
