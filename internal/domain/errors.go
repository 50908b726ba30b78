package domain

import "errors"

// Sentinel errors for the failure modes that components recover into
// structured results rather than propagate.
var (
	// ErrInsufficientData marks a price series shorter than the minimum bar
	// count required to attempt a backtest.
	ErrInsufficientData = errors.New("insufficient price data")

	// ErrInvalidParameters marks a parameter set that fails its strategy's
	// validity predicate. Such sets are excluded before job dispatch.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrNoValidResults marks an aggregation over results where every job
	// was invalid or failed.
	ErrNoValidResults = errors.New("no valid results")

	// ErrEmptyInput marks an empty symbol list or an empty parameter grid.
	ErrEmptyInput = errors.New("empty input")
)
