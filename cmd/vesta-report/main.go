package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"vesta/internal/config"
	"vesta/internal/domain"
	"vesta/internal/report"
	"vesta/internal/store"
	"vesta/internal/util"
)

func main() {
	runFlag := flag.String("run", "", "optimization run ID (default: most recent)")
	topFlag := flag.Int("top", 0, "ranking depth (overrides config)")
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

	resultStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening result store: %v", err)
	}
	defer resultStore.Close()

	ctx := context.Background()

	runID := *runFlag
	if runID == "" {
		runs, err := resultStore.ListRuns(ctx, 1)
		if err != nil {
			log.Fatalf("listing runs: %v", err)
		}
		if len(runs) == 0 {
			log.Fatal("no optimization runs recorded; run vesta-optimize first")
		}
		runID = runs[0].ID
	}

	loaded, err := resultStore.LoadResults(ctx, runID)
	if err != nil {
		log.Fatalf("loading results for run %s: %v", runID, err)
	}
	if len(loaded) == 0 {
		log.Fatalf("run %s has no results", runID)
	}

	var rows []domain.BacktestResult
	for _, r := range loaded {
		if r.Valid && r.Result != nil {
			row := *r.Result
			if row.Symbol == "" {
				row.Symbol = "(all)"
			}
			rows = append(rows, row)
		}
	}

	topN := cfg.Report.TopN
	if *topFlag > 0 {
		topN = *topFlag
	}

	gen := report.NewGenerator(topN)
	rep := gen.Build(rows, time.Now().UTC())
	text := rep.Render()
	fmt.Print(text)

	if err := os.MkdirAll(cfg.Storage.ReportDir, 0o755); err != nil {
		log.Fatalf("creating report dir: %v", err)
	}
	name := fmt.Sprintf("report-%s.txt", rep.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(cfg.Storage.ReportDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		log.Fatalf("writing report file: %v", err)
	}
	logger.Info("report written", "run", runID, "path", path, "rows", len(rows))
}
