package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vesta/internal/backtest"
	"vesta/internal/config"
	"vesta/internal/domain"
	"vesta/internal/optimize"
	"vesta/internal/store"
	"vesta/internal/strategy"
	"vesta/internal/strategy/builtins"
	"vesta/internal/util"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "comma-separated symbol list (overrides config)")
	daysFlag := flag.Int("days", 0, "evaluation window in trading days (overrides config)")
	workersFlag := flag.Int("workers", 0, "worker pool size (overrides config)")
	synthetic := flag.Bool("synthetic", false, "dry run with the synthetic evaluator instead of stored price data")
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

	registry := strategy.NewRegistry()
	builtins.All(registry)

	strategies := cfg.Optimize.Strategies
	if len(strategies) == 0 {
		strategies = registry.List()
	}
	symbols := cfg.Optimize.Symbols
	if *symbolsFlag != "" {
		symbols = strings.Split(*symbolsFlag, ",")
	}
	if len(symbols) == 0 {
		log.Fatal("no symbols configured; set optimize.symbols or pass -symbols")
	}
	days := cfg.Optimize.Days
	if *daysFlag > 0 {
		days = *daysFlag
	}
	workers := cfg.Optimize.Workers
	if *workersFlag > 0 {
		workers = *workersFlag
	}

	var evaluator optimize.Evaluator
	if *synthetic {
		evaluator = optimize.SyntheticEvaluator{}
		logger.Info("using synthetic evaluator (dry run)")
	} else {
		pstore := store.NewParquetStore(cfg.Storage.DataDir)
		sim := backtest.NewSimulator(backtest.Config{
			InitialCapital:     cfg.Backtest.InitialCapital,
			AllocationFraction: cfg.Backtest.AllocationFraction,
			SellFeeRate:        cfg.Backtest.SellFeeRate,
			MinBars:            cfg.Backtest.MinBars,
			AnnualizationDays:  cfg.Backtest.AnnualizationDays,
			MaxTradeDetails:    cfg.Backtest.MaxTradeDetails,
		}, logger)
		evaluator = optimize.NewBacktestEvaluator(pstore, sim, time.Time{}, logger)
	}

	resultStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening result store: %v", err)
	}
	defer resultStore.Close()

	best := store.NewBestParamsStore(cfg.Storage.BestParamsPath, logger)
	runner := optimize.NewRunner(evaluator, workers,
		time.Duration(cfg.Optimize.JobTimeoutSecs)*time.Second, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := store.NewRun(strategies, symbols, days, workers)
	if err := resultStore.CreateRun(ctx, run); err != nil {
		log.Fatalf("recording run: %v", err)
	}
	logger.Info("optimization run started",
		"run", run.ID, "strategies", len(strategies), "symbols", len(symbols), "days", days)

	var summaries []*optimize.Summary
	for _, name := range strategies {
		strat, ok := registry.Get(name)
		if !ok {
			log.Fatalf("unknown strategy %q (known: %s)", name, strings.Join(registry.List(), ", "))
		}

		results, err := runner.Optimize(ctx, strat, symbols, days)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyInput) {
				logger.Warn("skipping strategy with empty grid", "strategy", name)
				continue
			}
			log.Fatalf("optimizing %s: %v", name, err)
		}

		if err := resultStore.SaveResults(ctx, run.ID, results); err != nil {
			log.Fatalf("saving results for %s: %v", name, err)
		}

		summary, err := optimize.Summarize(name, results)
		if err != nil {
			logger.Warn("no valid results for strategy", "strategy", name, "err", err)
			continue
		}
		summaries = append(summaries, summary)
		best.Set(name, summary.BestParams, summary.BestScore)

		logger.Info("strategy optimized",
			"strategy", name,
			"best_params", summary.BestParams.String(),
			"best_score", summary.BestScore,
			"valid_jobs", summary.ValidJobs,
			"total_jobs", summary.TotalJobs)
	}

	for _, rank := range optimize.RankStrategies(summaries) {
		logger.Info("strategy ranking",
			"rank", rank.Rank,
			"strategy", rank.Summary.Strategy,
			"best_score", rank.Summary.BestScore,
			"mean_score", rank.Summary.MeanScore)
	}
	logger.Info("optimization run finished", "run", run.ID)
}
