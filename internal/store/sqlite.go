package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vesta/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ResultStore = (*SQLiteStore)(nil)

// SQLiteStore implements ResultStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	strategies TEXT NOT NULL,
	symbols    TEXT NOT NULL,
	days       INTEGER NOT NULL,
	workers    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	strategy     TEXT NOT NULL,
	params       TEXT NOT NULL,
	valid        INTEGER NOT NULL,
	score        REAL NOT NULL,
	total_return REAL NOT NULL,
	trade_count  INTEGER NOT NULL,
	win_rate     REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and applies
// the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun records a new optimization run.
func (s *SQLiteStore) CreateRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, strategies, symbols, days, workers) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		strings.Join(run.Strategies, ","),
		strings.Join(run.Symbols, ","),
		run.Days,
		run.Workers,
	)
	return err
}

// SaveResults appends job results to a run inside one transaction.
func (s *SQLiteStore) SaveResults(ctx context.Context, runID string, results []domain.OptimizationResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, strategy, params, valid, score, total_return, trade_count, win_rate, max_drawdown, sharpe_ratio, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return fmt.Errorf("encoding params for %s: %w", r.Strategy, err)
		}

		var ret, win, dd, sharpe float64
		var trades int
		status := string(domain.StatusError)
		if r.Result != nil {
			ret = r.Result.TotalReturn
			trades = r.Result.TradeCount
			win = r.Result.WinRate
			dd = r.Result.MaxDrawdown
			sharpe = r.Result.SharpeRatio
			status = string(r.Result.Status)
		}

		if _, err := stmt.ExecContext(ctx,
			runID, r.Strategy, string(params), boolToInt(r.Valid), r.Score,
			ret, trades, win, dd, sharpe, status, r.Error,
		); err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.Strategy, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, strategies, symbols, days, workers FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, strategies, symbols string
		if err := rows.Scan(&run.ID, &startedAt, &strategies, &symbols, &run.Days, &run.Workers); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		run.Strategies = splitList(strategies)
		run.Symbols = splitList(symbols)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadResults returns all results recorded for a run, best score first.
func (s *SQLiteStore) LoadResults(ctx context.Context, runID string) ([]domain.OptimizationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, params, valid, score, total_return, trade_count, win_rate, max_drawdown, sharpe_ratio, status, error
		 FROM results WHERE run_id = ? ORDER BY score DESC`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.OptimizationResult
	for rows.Next() {
		var r domain.OptimizationResult
		var params, status string
		var valid int
		br := &domain.BacktestResult{}
		if err := rows.Scan(&r.Strategy, &params, &valid, &r.Score,
			&br.TotalReturn, &br.TradeCount, &br.WinRate, &br.MaxDrawdown, &br.SharpeRatio,
			&status, &r.Error); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
			return nil, fmt.Errorf("decoding params for %s: %w", r.Strategy, err)
		}
		r.Valid = valid != 0
		if r.Valid {
			br.Strategy = r.Strategy
			br.Status = domain.ResultStatus(status)
			r.Result = br
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
