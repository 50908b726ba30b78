package backtest

import (
	"math"
	"testing"
	"time"

	"vesta/internal/domain"
)

var barStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// flatBars returns n daily bars at a constant close price.
func flatBars(n int, close float64) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := range bars {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: barStart.AddDate(0, 0, i),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    1000,
		}
	}
	return bars
}

func TestSimulatorRoundTrip(t *testing.T) {
	// Buy 95 shares at 10,000 with 95% of 1,000,000; sell at 11,000 with a
	// 0.3% fee. proceeds = 95*11,000*0.997 = 1,041,865 and final value is
	// 50,000 + 1,041,865 = 1,091,865.
	bars := flatBars(60, 10_000)
	for i := 50; i < 60; i++ {
		bars[i].Close = 11_000
	}
	signals := []domain.Signal{
		{Timestamp: bars[10].Timestamp, Side: domain.SideBuy, Price: 10_000, Reason: "test buy"},
		{Timestamp: bars[55].Timestamp, Side: domain.SideSell, Price: 11_000, Reason: "test sell"},
	}

	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", bars, signals)

	if result.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK (err %q)", result.Status, result.Error)
	}
	wantReturn := (1_091_865.0/1_000_000 - 1) * 100
	if math.Abs(result.TotalReturn-wantReturn) > 1e-6 {
		t.Errorf("TotalReturn = %g, want %g", result.TotalReturn, wantReturn)
	}
	if result.TradeCount != 1 {
		t.Errorf("TradeCount = %d, want 1 closed trade", result.TradeCount)
	}
	if result.WinRate != 100 {
		t.Errorf("WinRate = %g, want 100", result.WinRate)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(result.Trades))
	}
	if result.Trades[0].Side != domain.SideBuy || result.Trades[0].Shares != 95 {
		t.Errorf("first ledger entry = %+v, want BUY of 95 shares", result.Trades[0])
	}
	if result.MaxDrawdown > 0 {
		t.Errorf("MaxDrawdown = %g, want <= 0", result.MaxDrawdown)
	}
}

func TestSimulatorEmptySignals(t *testing.T) {
	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", flatBars(60, 100), nil)

	if result.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", result.Status)
	}
	if result.TradeCount != 0 || result.WinRate != 0 || result.TotalReturn != 0 {
		t.Errorf("zero-activity result = %+v, want zeroed metrics", result)
	}
}

func TestSimulatorInsufficientData(t *testing.T) {
	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", flatBars(10, 100), nil)

	if result.Status != domain.StatusInsufficientData {
		t.Fatalf("status = %s, want InsufficientData", result.Status)
	}
	if result.TotalReturn != 0 || result.TradeCount != 0 || result.SharpeRatio != 0 {
		t.Errorf("metrics not zeroed on insufficient data: %+v", result)
	}
}

func TestSimulatorUnderfundedBuyIsNoOp(t *testing.T) {
	bars := flatBars(60, 100)
	signals := []domain.Signal{
		{Timestamp: bars[5].Timestamp, Side: domain.SideBuy, Price: 2_000_000, Reason: "too expensive"},
	}

	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", bars, signals)

	if result.TradeCount != 0 || len(result.Trades) != 0 {
		t.Errorf("underfunded buy should be a no-op, got %+v", result)
	}
}

func TestSimulatorSingleLongPosition(t *testing.T) {
	// A second BUY while long and a SELL while flat are both ignored.
	bars := flatBars(60, 100)
	signals := []domain.Signal{
		{Timestamp: bars[2].Timestamp, Side: domain.SideSell, Price: 100, Reason: "flat sell"},
		{Timestamp: bars[5].Timestamp, Side: domain.SideBuy, Price: 100, Reason: "first buy"},
		{Timestamp: bars[8].Timestamp, Side: domain.SideBuy, Price: 100, Reason: "second buy"},
		{Timestamp: bars[20].Timestamp, Side: domain.SideSell, Price: 110, Reason: "sell"},
	}

	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", bars, signals)

	if len(result.Trades) != 2 {
		t.Fatalf("ledger has %d entries, want 2 (one buy, one sell)", len(result.Trades))
	}
	if result.Trades[0].Side != domain.SideBuy || result.Trades[1].Side != domain.SideSell {
		t.Errorf("ledger sides = %s, %s, want BUY, SELL", result.Trades[0].Side, result.Trades[1].Side)
	}
}

func TestSimulatorForcedLiquidation(t *testing.T) {
	bars := flatBars(60, 100)
	bars[len(bars)-1].Close = 120
	signals := []domain.Signal{
		{Timestamp: bars[5].Timestamp, Side: domain.SideBuy, Price: 100, Reason: "buy and hold"},
	}

	sim := NewSimulator(DefaultConfig(), nil)
	result := sim.Run("TEST", "fake", bars, signals)

	if result.TradeCount != 1 {
		t.Fatalf("TradeCount = %d, want 1 (liquidation closes the position)", result.TradeCount)
	}
	last := result.Trades[len(result.Trades)-1]
	if last.Side != domain.SideSell || last.Price != 120 {
		t.Errorf("liquidation entry = %+v, want SELL at last close 120", last)
	}
	if result.TotalReturn <= 0 {
		t.Errorf("TotalReturn = %g, want > 0 after price rise", result.TotalReturn)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	bars := flatBars(80, 50)
	for i := range bars {
		bars[i].Close = 50 + float64(i%7)
	}
	signals := []domain.Signal{
		{Timestamp: bars[10].Timestamp, Side: domain.SideBuy, Price: 52, Reason: "a"},
		{Timestamp: bars[40].Timestamp, Side: domain.SideSell, Price: 55, Reason: "b"},
		{Timestamp: bars[50].Timestamp, Side: domain.SideBuy, Price: 51, Reason: "c"},
	}

	sim := NewSimulator(DefaultConfig(), nil)
	a := sim.Run("TEST", "fake", bars, signals)
	b := sim.Run("TEST", "fake", bars, signals)

	if a.TotalReturn != b.TotalReturn || a.SharpeRatio != b.SharpeRatio || a.MaxDrawdown != b.MaxDrawdown {
		t.Errorf("identical inputs produced different results: %+v vs %+v", a, b)
	}
}

func TestSimulatorTradeDetailsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTradeDetails = 4

	bars := flatBars(100, 100)
	var signals []domain.Signal
	for i := 5; i < 65; i += 4 {
		signals = append(signals,
			domain.Signal{Timestamp: bars[i].Timestamp, Side: domain.SideBuy, Price: 100, Reason: "b"},
			domain.Signal{Timestamp: bars[i+2].Timestamp, Side: domain.SideSell, Price: 101, Reason: "s"},
		)
	}

	sim := NewSimulator(cfg, nil)
	result := sim.Run("TEST", "fake", bars, signals)

	if len(result.Trades) != 4 {
		t.Errorf("result carries %d ledger entries, want bound of 4", len(result.Trades))
	}
	if result.TradeCount <= 4 {
		t.Errorf("TradeCount = %d, want full closed-trade count above the detail bound", result.TradeCount)
	}
}
