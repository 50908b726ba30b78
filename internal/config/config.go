package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the vesta engine.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Logging  Logging        `yaml:"logging"`
	Alpaca   Alpaca         `yaml:"alpaca"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Backtest BacktestConfig `yaml:"backtest"`
	Optimize OptimizeConfig `yaml:"optimize"`
	Report   ReportConfig   `yaml:"report"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir        string `yaml:"data_dir"`
	SQLitePath     string `yaml:"sqlite_path"`
	BestParamsPath string `yaml:"best_params_path"`
	ReportDir      string `yaml:"report_dir"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// FetchConfig holds parameters for the daily-bar fetch job.
type FetchConfig struct {
	StartDate       string `yaml:"start_date"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
	MaxAttempts     int    `yaml:"max_attempts"`
}

// BacktestConfig defines the simulated-account parameters.
type BacktestConfig struct {
	InitialCapital     float64 `yaml:"initial_capital"`
	AllocationFraction float64 `yaml:"allocation_fraction"`
	SellFeeRate        float64 `yaml:"sell_fee_rate"`
	MinBars            int     `yaml:"min_bars"`
	AnnualizationDays  int     `yaml:"annualization_days"`
	MaxTradeDetails    int     `yaml:"max_trade_details"`
}

// OptimizeConfig defines the grid-search run parameters.
type OptimizeConfig struct {
	Strategies     []string `yaml:"strategies"`
	Symbols        []string `yaml:"symbols"`
	Days           int      `yaml:"days"`
	Workers        int      `yaml:"workers"`
	JobTimeoutSecs int      `yaml:"job_timeout_secs"`
}

// ReportConfig controls ranked-report generation.
type ReportConfig struct {
	TopN int `yaml:"top_n"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies defaults for unset values, and then applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyDefaults fills in the documented defaults for every knob the YAML
// file left unset.
func applyDefaults(cfg *Config) {
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "vesta.db"
	}
	if cfg.Storage.BestParamsPath == "" {
		cfg.Storage.BestParamsPath = "best_params.json"
	}
	if cfg.Storage.ReportDir == "" {
		cfg.Storage.ReportDir = "reports"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Fetch.StartDate == "" {
		cfg.Fetch.StartDate = "2020-01-01"
	}
	if cfg.Fetch.RateLimitPerMin == 0 {
		cfg.Fetch.RateLimitPerMin = 200
	}
	if cfg.Fetch.MaxAttempts == 0 {
		cfg.Fetch.MaxAttempts = 3
	}
	if cfg.Backtest.InitialCapital == 0 {
		cfg.Backtest.InitialCapital = 1_000_000
	}
	if cfg.Backtest.AllocationFraction == 0 {
		cfg.Backtest.AllocationFraction = 0.95
	}
	if cfg.Backtest.SellFeeRate == 0 {
		cfg.Backtest.SellFeeRate = 0.003
	}
	if cfg.Backtest.MinBars == 0 {
		cfg.Backtest.MinBars = 50
	}
	if cfg.Backtest.AnnualizationDays == 0 {
		cfg.Backtest.AnnualizationDays = 252
	}
	if cfg.Backtest.MaxTradeDetails == 0 {
		cfg.Backtest.MaxTradeDetails = 20
	}
	if cfg.Optimize.Days == 0 {
		cfg.Optimize.Days = 252
	}
	if cfg.Optimize.Workers == 0 {
		cfg.Optimize.Workers = 4
	}
	if cfg.Optimize.JobTimeoutSecs == 0 {
		cfg.Optimize.JobTimeoutSecs = 60
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = 50
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}
	if v := os.Getenv("VESTA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Optimize.Workers = n
		}
	}

	// Canonical Alpaca SDK env vars take highest priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
