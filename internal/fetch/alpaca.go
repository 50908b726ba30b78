package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"vesta/internal/domain"
	"vesta/internal/store"
	"vesta/internal/util"
)

// Compile-time interface check.
var _ Fetcher = (*DailyBarFetcher)(nil)

// batchSize is the number of symbols per GetMultiBars call.
const batchSize = 200

// DailyBarFetcher fetches daily OHLCV bars for a configured symbol list via
// the Alpaca market-data API and writes them to the bar store.
type DailyBarFetcher struct {
	client      *marketdata.Client
	store       store.BarStore
	symbols     []string
	startDate   string
	maxAttempts int
	limiter     *util.RateLimiter
	log         *slog.Logger
}

// NewDailyBarFetcher creates a DailyBarFetcher with the given Alpaca
// credentials, target store, and symbol list.
func NewDailyBarFetcher(apiKey, apiSecret, dataURL string, s store.BarStore, symbols []string, startDate string, rateLimitPerMin, maxAttempts int) *DailyBarFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if rateLimitPerMin <= 0 {
		rateLimitPerMin = 200
	}

	return &DailyBarFetcher{
		client:      marketdata.NewClient(opts),
		store:       s,
		symbols:     symbols,
		startDate:   startDate,
		maxAttempts: maxAttempts,
		limiter:     util.NewRateLimiter(rateLimitPerMin),
		log:         slog.Default().With("fetcher", "daily-bars"),
	}
}

// Name returns the fetcher identifier.
func (f *DailyBarFetcher) Name() string { return "daily-bars" }

// Run fetches daily bars for all configured symbols from the start date up
// to the most recent finished trading day and writes them to the store. Bars
// already on disk are overwritten by the fresh copies, so reruns are
// idempotent.
func (f *DailyBarFetcher) Run(ctx context.Context) error {
	start, err := time.Parse("2006-01-02", f.startDate)
	if err != nil {
		return fmt.Errorf("parsing start date %q: %w", f.startDate, err)
	}
	end := util.PrevTradingDay(time.Now().UTC())

	batches := batchSymbols(f.symbols, batchSize)
	f.log.Info("starting daily bar fetch",
		"symbols", len(f.symbols),
		"batches", len(batches),
		"start", f.startDate,
		"end", end.Format("2006-01-02"))

	runStart := time.Now()
	for i, batch := range batches {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		var bars []domain.Bar
		err := util.Retry(ctx, f.maxAttempts, time.Second, func() error {
			var fetchErr error
			bars, fetchErr = f.fetchMultiBars(ctx, batch, start, end)
			return fetchErr
		})
		if err != nil {
			return fmt.Errorf("fetching batch %d/%d: %w", i+1, len(batches), err)
		}

		if err := f.store.WriteBars(ctx, bars); err != nil {
			return fmt.Errorf("writing batch %d/%d: %w", i+1, len(batches), err)
		}

		f.log.Info("batch done",
			"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
			"bars", len(bars),
			"elapsed", time.Since(runStart).Round(time.Second))
	}
	return nil
}

// fetchMultiBars fetches daily bars for multiple symbols in a single API
// call.
func (f *DailyBarFetcher) fetchMultiBars(ctx context.Context, symbols []string, start, end time.Time) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	multiBars, err := f.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      "sip",
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Symbol:     strings.ToUpper(symbol),
				Timestamp:  ab.Timestamp,
				Open:       ab.Open,
				High:       ab.High,
				Low:        ab.Low,
				Close:      ab.Close,
				Volume:     int64(ab.Volume),
				TradeCount: int64(ab.TradeCount),
				VWAP:       ab.VWAP,
			})
		}
	}
	return bars, nil
}

func batchSymbols(symbols []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var batches [][]string
	for i := 0; i < len(symbols); i += size {
		end := min(i+size, len(symbols))
		batches = append(batches, symbols[i:end])
	}
	return batches
}
