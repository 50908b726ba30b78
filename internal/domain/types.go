// Package domain defines the core data types shared across the vesta
// backtesting and parameter-optimization engine.
package domain

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
)

// Side is the direction of a signal or executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Bar is a single daily OHLCV row for one symbol.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Signal is a strategy's recommendation to buy or sell at a point in time.
// Signals are immutable and consumed strictly in timestamp order.
type Signal struct {
	Timestamp time.Time `json:"timestamp"`
	Side      Side      `json:"side"`
	Price     float64   `json:"price"`
	Reason    string    `json:"reason"`
}

// Trade is an executed buy or sell event recorded in the simulation ledger.
// The ledger is append-only; a Trade is never mutated after creation.
type Trade struct {
	Date   time.Time `json:"date"`
	Side   Side      `json:"side"`
	Price  float64   `json:"price"`
	Shares int64     `json:"shares"`
	Reason string    `json:"reason"`
	Symbol string    `json:"symbol"`
}

// ResultStatus tags a BacktestResult with how the simulation concluded.
type ResultStatus string

const (
	// StatusOK means the simulation ran to completion.
	StatusOK ResultStatus = "ok"
	// StatusInsufficientData means the price series was shorter than the
	// configured minimum bar count and the simulation was not attempted.
	StatusInsufficientData ResultStatus = "insufficient_data"
	// StatusError means an unexpected fault was recovered during replay; the
	// Error field carries the fault text.
	StatusError ResultStatus = "error"
)

// BacktestResult holds the outcome of one (symbol, strategy, parameter-set)
// evaluation. Percent-valued fields (TotalReturn, WinRate, MaxDrawdown) are
// expressed in percent; MaxDrawdown is zero or negative. Immutable once
// produced.
type BacktestResult struct {
	Symbol      string       `json:"symbol"`
	Strategy    string       `json:"strategy"`
	TotalReturn float64      `json:"total_return"`
	TradeCount  int          `json:"trade_count"`
	WinRate     float64      `json:"win_rate"`
	MaxDrawdown float64      `json:"max_drawdown"`
	SharpeRatio float64      `json:"sharpe_ratio"`
	Trades      []Trade      `json:"trade_details,omitempty"`
	Status      ResultStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
}

// ParameterSet maps parameter names to numeric values for one strategy.
type ParameterSet map[string]float64

// Clone returns a copy of the parameter set.
func (ps ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (ps ParameterSet) Keys() []string {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the set as "k1=v1 k2=v2" with keys sorted, so identical
// sets always render identically.
func (ps ParameterSet) String() string {
	parts := make([]string, 0, len(ps))
	for _, k := range ps.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%g", k, ps[k]))
	}
	return strings.Join(parts, " ")
}

// Hash returns a deterministic FNV-1a hash of the parameter set, suitable
// for seeding per-job random generators. Identical sets always hash
// identically regardless of map iteration order.
func (ps ParameterSet) Hash() uint64 {
	h := fnv.New64a()
	for _, k := range ps.Keys() {
		fmt.Fprintf(h, "%s=%v;", k, ps[k])
	}
	return h.Sum64()
}

// OptimizationResult is the outcome of one optimization job: a single
// (strategy, parameter-set) evaluation over the configured symbols and
// window. Valid is false when the job failed; Error then carries the fault
// text and Result is nil.
type OptimizationResult struct {
	Strategy string          `json:"strategy"`
	Params   ParameterSet    `json:"params"`
	Valid    bool            `json:"valid"`
	Score    float64         `json:"score"`
	Result   *BacktestResult `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}
