package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"vesta/internal/domain"
)

// BestEntry is one strategy's winning parameter set with its score.
type BestEntry struct {
	Params    domain.ParameterSet `json:"params"`
	Score     float64             `json:"score"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// BestParamsStore holds the best known parameters per strategy in memory
// with JSON persistence. Backtest and live runs read from it; the optimizer
// writes into it after each run.
type BestParamsStore struct {
	mu       sync.RWMutex
	entries  map[string]BestEntry // strategy -> winner
	filePath string
	log      *slog.Logger
}

// NewBestParamsStore creates a BestParamsStore, loading persisted state from
// filePath.
func NewBestParamsStore(filePath string, log *slog.Logger) *BestParamsStore {
	if log == nil {
		log = slog.Default()
	}
	s := &BestParamsStore{
		entries:  make(map[string]BestEntry),
		filePath: filePath,
		log:      log,
	}
	s.load()
	return s
}

// Get returns the best entry for a strategy, if one has been recorded.
func (s *BestParamsStore) Get(strategy string) (BestEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[strategy]
	if ok {
		e.Params = e.Params.Clone()
	}
	return e, ok
}

// Set records a strategy's winning parameters and persists to disk. A worse
// score than the stored one still overwrites: the store tracks the latest
// run, not an all-time high.
func (s *BestParamsStore) Set(strategy string, params domain.ParameterSet, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[strategy] = BestEntry{
		Params:    params.Clone(),
		Score:     score,
		UpdatedAt: time.Now().UTC(),
	}
	s.flush()
}

// Snapshot returns a deep copy of all entries.
func (s *BestParamsStore) Snapshot() map[string]BestEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]BestEntry, len(s.entries))
	for name, e := range s.entries {
		e.Params = e.Params.Clone()
		out[name] = e
	}
	return out
}

// load reads the JSON file into memory.
func (s *BestParamsStore) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return // File doesn't exist yet. Start empty.
	}
	var loaded map[string]BestEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Warn("loading best params file", "error", err)
		return
	}
	s.entries = loaded
	s.log.Info("loaded best params", "strategies", len(loaded))
}

// flush writes the in-memory state to disk. Must be called with mu held.
func (s *BestParamsStore) flush() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		s.log.Error("marshalling best params", "error", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		s.log.Error("writing best params file", "error", err)
	}
}
