// Package store provides flat-file key-value persistence for player data.
// Each store owns one JSON file mapping user IDs to records. The full file is
// loaded at startup and rewritten on every mutation, so a crash after a
// mutator returns never loses that mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// loadJSON reads the file at path into v. A missing file is not an error and
// leaves v untouched.
func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveJSON writes v to path via a temp file and rename, so the file on disk is
// always a complete document.
func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// BalanceStore persists per-user balances.
type BalanceStore struct {
	mu   sync.Mutex
	path string
	data map[string]int64
}

// OpenBalances loads the balance store from path, treating a missing file as
// an empty store.
func OpenBalances(path string) (*BalanceStore, error) {
	s := &BalanceStore{
		path: path,
		data: make(map[string]int64),
	}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the stored balance for a user and whether an entry exists.
func (s *BalanceStore) Get(userID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.data[userID]
	return balance, ok
}

// Set writes a user's balance and persists the store before returning.
func (s *BalanceStore) Set(userID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = amount
	return saveJSON(s.path, s.data)
}

// All returns a copy of every balance entry.
func (s *BalanceStore) All() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.data))
	for id, balance := range s.data {
		out[id] = balance
	}
	return out
}

// Len returns the number of known players.
func (s *BalanceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// playerStats is the on-disk record for one player's play statistics.
type playerStats struct {
	GamesPlayed int `json:"games_played"`
}

// StatsStore persists per-user play counters.
type StatsStore struct {
	mu   sync.Mutex
	path string
	data map[string]*playerStats
}

// OpenStats loads the stats store from path, treating a missing file as an
// empty store.
func OpenStats(path string) (*StatsStore, error) {
	s := &StatsStore{
		path: path,
		data: make(map[string]*playerStats),
	}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// GamesPlayed returns the recorded play count for a user, 0 if absent.
func (s *StatsStore) GamesPlayed(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.data[userID]; ok {
		return st.GamesPlayed
	}
	return 0
}

// RecordPlay increments a user's play counter, creating the record at zero if
// absent, and persists the store before returning.
func (s *StatsStore) RecordPlay(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data[userID]
	if !ok {
		st = &playerStats{}
		s.data[userID] = st
	}
	st.GamesPlayed++
	return saveJSON(s.path, s.data)
}
