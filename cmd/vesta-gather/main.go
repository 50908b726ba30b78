package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vesta/internal/config"
	"vesta/internal/fetch"
	"vesta/internal/store"
	"vesta/internal/util"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "comma-separated symbol list (overrides config)")
	flag.Parse()

	cfgPath := "config/vesta.yaml"
	if p := os.Getenv("VESTA_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	symbols := cfg.Optimize.Symbols
	if *symbolsFlag != "" {
		symbols = strings.Split(*symbolsFlag, ",")
	}
	if len(symbols) == 0 {
		log.Fatal("no symbols configured; set optimize.symbols or pass -symbols")
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	fetcher := fetch.NewDailyBarFetcher(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		pstore,
		symbols,
		cfg.Fetch.StartDate,
		cfg.Fetch.RateLimitPerMin,
		cfg.Fetch.MaxAttempts,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting vesta-gather", "symbols", len(symbols))
	if err := fetcher.Run(ctx); err != nil {
		log.Fatalf("fetch error: %v", err)
	}
}
