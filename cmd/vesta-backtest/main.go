package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vesta/internal/backtest"
	"vesta/internal/config"
	"vesta/internal/domain"
	"vesta/internal/report"
	"vesta/internal/store"
	"vesta/internal/strategy"
	"vesta/internal/strategy/builtins"
	"vesta/internal/util"
)

func main() {
	strategyFlag := flag.String("strategy", "", "strategy to run (default: all configured)")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbol list (overrides config)")
	daysFlag := flag.Int("days", 0, "evaluation window in trading days (overrides config)")
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
	if *strategyFlag != "" {
		strategies = []string{*strategyFlag}
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

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	best := store.NewBestParamsStore(cfg.Storage.BestParamsPath, logger)
	sim := backtest.NewSimulator(backtest.Config{
		InitialCapital:     cfg.Backtest.InitialCapital,
		AllocationFraction: cfg.Backtest.AllocationFraction,
		SellFeeRate:        cfg.Backtest.SellFeeRate,
		MinBars:            cfg.Backtest.MinBars,
		AnnualizationDays:  cfg.Backtest.AnnualizationDays,
		MaxTradeDetails:    cfg.Backtest.MaxTradeDetails,
	}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	end := util.PrevTradingDay(time.Now().UTC())
	start := util.TradingDayWindow(end, days)

	var results []domain.BacktestResult
	for _, name := range strategies {
		strat, ok := registry.Get(name)
		if !ok {
			log.Fatalf("unknown strategy %q (known: %s)", name, strings.Join(registry.List(), ", "))
		}

		// Prefer the optimizer's winning parameters when available.
		if entry, ok := best.Get(name); ok {
			configured, err := strat.WithParams(entry.Params)
			if err != nil {
				logger.Warn("stored best params rejected, using defaults",
					"strategy", name, "err", err)
			} else {
				strat = configured
				logger.Info("using optimized parameters",
					"strategy", name, "params", entry.Params.String(), "score", entry.Score)
			}
		}

		for _, symbol := range symbols {
			bars, err := pstore.ReadBars(ctx, symbol, start, end)
			if err != nil {
				log.Fatalf("reading bars for %s: %v", symbol, err)
			}
			signals := strat.Run(bars, symbol)
			result := sim.Run(symbol, name, bars, signals)
			results = append(results, result)

			logger.Info("backtest done",
				"strategy", name,
				"symbol", symbol,
				"status", string(result.Status),
				"return", fmt.Sprintf("%.2f%%", result.TotalReturn),
				"trades", result.TradeCount,
				"winrate", fmt.Sprintf("%.1f%%", result.WinRate),
				"sharpe", fmt.Sprintf("%.2f", result.SharpeRatio),
				"drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdown))
		}
	}

	gen := report.NewGenerator(cfg.Report.TopN)
	rep := gen.Build(results, time.Now().UTC())
	fmt.Print(rep.Render())
}
