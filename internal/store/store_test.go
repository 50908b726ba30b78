package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vesta/internal/domain"
)

func TestParquetStoreRoundTrip(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []domain.Bar{
		{Symbol: "AAPL", Timestamp: start, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000},
		{Symbol: "AAPL", Timestamp: start.AddDate(0, 0, 1), Open: 104, High: 106, Low: 103, Close: 105, Volume: 1200},
		{Symbol: "MSFT", Timestamp: start, Open: 400, High: 410, Low: 399, Close: 405, Volume: 800},
	}
	if err := s.WriteBars(ctx, bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "AAPL", start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if got[0].Close != 104 || got[1].Close != 105 {
		t.Errorf("closes = %g, %g, want 104, 105", got[0].Close, got[1].Close)
	}

	symbols, err := s.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("symbols = %v, want [AAPL MSFT]", symbols)
	}
}

func TestParquetStoreMergeOnWrite(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	ctx := context.Background()

	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := []domain.Bar{{Symbol: "AAPL", Timestamp: ts, Close: 100, Volume: 10}}
	second := []domain.Bar{
		{Symbol: "AAPL", Timestamp: ts, Close: 101, Volume: 11},
		{Symbol: "AAPL", Timestamp: ts.AddDate(0, 0, 1), Close: 102, Volume: 12},
	}

	if err := s.WriteBars(ctx, first); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}
	if err := s.WriteBars(ctx, second); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "AAPL", ts, ts.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars after merge, want 2 (duplicate overwritten)", len(got))
	}
	if got[0].Close != 101 {
		t.Errorf("merged close = %g, want new value 101", got[0].Close)
	}
}

func TestParquetStoreMissingSymbol(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	got, err := s.ReadBars(context.Background(), "NOPE",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d bars for missing symbol, want 0", len(got))
	}
}

func TestSQLiteStoreRunsAndResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	run := NewRun([]string{"macd_cross"}, []string{"AAPL", "MSFT"}, 252, 4)
	if run.ID == "" {
		t.Fatal("NewRun produced empty ID")
	}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	results := []domain.OptimizationResult{
		{
			Strategy: "macd_cross",
			Params:   domain.ParameterSet{"fast_period": 12, "slow_period": 26},
			Valid:    true,
			Score:    1.25,
			Result: &domain.BacktestResult{
				Strategy:    "macd_cross",
				TotalReturn: 9.5,
				TradeCount:  7,
				WinRate:     71.4,
				MaxDrawdown: -4.2,
				SharpeRatio: 1.8,
				Status:      domain.StatusOK,
			},
		},
		{
			Strategy: "macd_cross",
			Params:   domain.ParameterSet{"fast_period": 16, "slow_period": 20},
			Valid:    false,
			Error:    "evaluation failed",
		},
	}
	if err := s.SaveResults(ctx, run.ID, results); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("ListRuns = %+v, want one run %s", runs, run.ID)
	}
	if len(runs[0].Symbols) != 2 || runs[0].Symbols[0] != "AAPL" {
		t.Errorf("run symbols = %v, want [AAPL MSFT]", runs[0].Symbols)
	}

	loaded, err := s.LoadResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d results, want 2", len(loaded))
	}
	best := loaded[0]
	if !best.Valid || best.Score != 1.25 {
		t.Errorf("best result = %+v, want valid with score 1.25", best)
	}
	if best.Params["fast_period"] != 12 {
		t.Errorf("best fast_period = %g, want 12", best.Params["fast_period"])
	}
	if best.Result == nil || best.Result.WinRate != 71.4 {
		t.Errorf("best backtest result not restored: %+v", best.Result)
	}
	if loaded[1].Valid || loaded[1].Error != "evaluation failed" {
		t.Errorf("failed result not preserved: %+v", loaded[1])
	}
}

func TestBestParamsStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.json")

	s := NewBestParamsStore(path, nil)
	if _, ok := s.Get("macd_cross"); ok {
		t.Fatal("empty store should have no entries")
	}

	params := domain.ParameterSet{"fast_period": 12, "slow_period": 26}
	s.Set("macd_cross", params, 1.5)

	// Mutating the caller's map must not affect the stored copy.
	params["fast_period"] = 99

	reloaded := NewBestParamsStore(path, nil)
	entry, ok := reloaded.Get("macd_cross")
	if !ok {
		t.Fatal("entry lost after reload")
	}
	if entry.Score != 1.5 || entry.Params["fast_period"] != 12 {
		t.Errorf("reloaded entry = %+v, want score 1.5 with fast_period 12", entry)
	}
}
