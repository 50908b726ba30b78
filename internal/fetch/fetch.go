// Package fetch acquires daily bar data from the Alpaca market-data API and
// persists it through the bar store.
package fetch

import (
	"context"
)

// Fetcher is the interface for data acquisition processes.
type Fetcher interface {
	// Name returns the fetcher identifier.
	Name() string
	// Run fetches data until done or ctx is cancelled.
	Run(ctx context.Context) error
}
