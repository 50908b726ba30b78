package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/vesta/data"
  sqlite_path: "/tmp/vesta/vesta.db"
logging:
  level: "info"
  format: "json"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
fetch:
  start_date: "2020-01-01"
  rate_limit_per_min: 100
backtest:
  initial_capital: 500000
  allocation_fraction: 0.9
optimize:
  strategies: ["macd_cross", "rsi_threshold"]
  symbols: ["AAPL", "MSFT"]
  days: 120
  workers: 8
`)

	tmpFile, err := os.CreateTemp("", "vesta-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("ALPACA_API_KEY")
	os.Unsetenv("ALPACA_API_SECRET")
	os.Unsetenv("APCA_API_KEY_ID")
	os.Unsetenv("APCA_API_SECRET_KEY")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("VESTA_WORKERS")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Explicit values --
	if cfg.Storage.DataDir != "/tmp/vesta/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/vesta/data")
	}
	if cfg.Alpaca.APIKey != "test-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q", cfg.Alpaca.APIKey, "test-key")
	}
	if cfg.Fetch.RateLimitPerMin != 100 {
		t.Errorf("Fetch.RateLimitPerMin = %d, want 100", cfg.Fetch.RateLimitPerMin)
	}
	if cfg.Backtest.InitialCapital != 500000 {
		t.Errorf("Backtest.InitialCapital = %v, want 500000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.AllocationFraction != 0.9 {
		t.Errorf("Backtest.AllocationFraction = %v, want 0.9", cfg.Backtest.AllocationFraction)
	}
	if len(cfg.Optimize.Strategies) != 2 || cfg.Optimize.Strategies[0] != "macd_cross" {
		t.Errorf("Optimize.Strategies = %v, want [macd_cross rsi_threshold]", cfg.Optimize.Strategies)
	}
	if cfg.Optimize.Workers != 8 {
		t.Errorf("Optimize.Workers = %d, want 8", cfg.Optimize.Workers)
	}

	// -- Defaults for unset values --
	if cfg.Backtest.SellFeeRate != 0.003 {
		t.Errorf("Backtest.SellFeeRate default = %v, want 0.003", cfg.Backtest.SellFeeRate)
	}
	if cfg.Backtest.MinBars != 50 {
		t.Errorf("Backtest.MinBars default = %d, want 50", cfg.Backtest.MinBars)
	}
	if cfg.Backtest.AnnualizationDays != 252 {
		t.Errorf("Backtest.AnnualizationDays default = %d, want 252", cfg.Backtest.AnnualizationDays)
	}
	if cfg.Report.TopN != 50 {
		t.Errorf("Report.TopN default = %d, want 50", cfg.Report.TopN)
	}
	if cfg.Optimize.JobTimeoutSecs != 60 {
		t.Errorf("Optimize.JobTimeoutSecs default = %d, want 60", cfg.Optimize.JobTimeoutSecs)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
storage:
  data_dir: "/original/data"
optimize:
  workers: 2
`)

	tmpFile, err := os.CreateTemp("", "vesta-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Setenv("ALPACA_API_KEY", "env-key")
	os.Setenv("DATA_DIR", "/env/data")
	os.Setenv("VESTA_WORKERS", "6")
	os.Unsetenv("APCA_API_KEY_ID")
	os.Unsetenv("APCA_API_SECRET_KEY")
	defer os.Unsetenv("ALPACA_API_KEY")
	defer os.Unsetenv("DATA_DIR")
	defer os.Unsetenv("VESTA_WORKERS")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	// api_secret should remain from YAML since no env override was set.
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
	if cfg.Optimize.Workers != 6 {
		t.Errorf("Optimize.Workers = %d, want 6 (env override)", cfg.Optimize.Workers)
	}
}
