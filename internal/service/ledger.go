// Package service provides business logic implementations.
package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/model"
	"cazgino-bot/internal/store"
)

// ErrStorage marks persistence failures so callers can distinguish them from
// game-rule rejections.
var ErrStorage = errors.New("storage failure")

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// Ledger owns per-user balances and play counters. Mutators persist before
// returning; they apply no lower-bound clamp, so callers must verify
// sufficient funds before debiting.
type Ledger struct {
	balances        *store.BalanceStore
	stats           *store.StatsStore
	startingBalance int64
}

// NewLedger creates a new Ledger over the given stores.
func NewLedger(balances *store.BalanceStore, stats *store.StatsStore, startingBalance int64) *Ledger {
	return &Ledger{
		balances:        balances,
		stats:           stats,
		startingBalance: startingBalance,
	}
}

// GetBalance returns a user's balance, initializing it to the starting
// balance on first access. The initialization is persisted.
func (l *Ledger) GetBalance(userID string) (int64, error) {
	if balance, ok := l.balances.Get(userID); ok {
		return balance, nil
	}
	if err := l.balances.Set(userID, l.startingBalance); err != nil {
		return 0, storageErr(err)
	}
	log.Debug().
		Str("user_id", userID).
		Int64("balance", l.startingBalance).
		Str("tx_type", model.TxTypeInit).
		Msg("Ledger entry created")
	return l.startingBalance, nil
}

// SetBalance overwrites a user's balance and persists it.
func (l *Ledger) SetBalance(userID string, amount int64, txType string) error {
	if err := l.balances.Set(userID, amount); err != nil {
		return storageErr(err)
	}
	log.Info().
		Str("user_id", userID).
		Int64("balance", amount).
		Str("tx_type", txType).
		Msg("Balance set")
	return nil
}

// AddBalance adds delta (possibly negative) to a user's balance and persists
// it. Returns the new balance.
func (l *Ledger) AddBalance(userID string, delta int64, txType string) (int64, error) {
	current, err := l.GetBalance(userID)
	if err != nil {
		return 0, err
	}
	updated := current + delta
	if err := l.balances.Set(userID, updated); err != nil {
		return 0, storageErr(err)
	}
	log.Info().
		Str("user_id", userID).
		Int64("delta", delta).
		Int64("balance", updated).
		Str("tx_type", txType).
		Msg("Balance updated")
	return updated, nil
}

// RecordPlay increments a user's play counter and persists it.
func (l *Ledger) RecordPlay(userID string) error {
	if err := l.stats.RecordPlay(userID); err != nil {
		return storageErr(err)
	}
	return nil
}

// HasPlayed reports whether a user has at least one recorded play.
func (l *Ledger) HasPlayed(userID string) bool {
	return l.stats.GamesPlayed(userID) > 0
}

// GamesPlayed returns a user's recorded play count.
func (l *Ledger) GamesPlayed(userID string) int {
	return l.stats.GamesPlayed(userID)
}

// KnownPlayers returns the number of users with a ledger entry.
func (l *Ledger) KnownPlayers() int {
	return l.balances.Len()
}

// Leaderboard returns up to limit entries for users with at least one
// recorded play, sorted by balance descending. Ties break by user ID
// ascending to keep the order deterministic.
func (l *Ledger) Leaderboard(limit int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0)
	for userID, balance := range l.balances.All() {
		if !l.HasPlayed(userID) {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			UserID:      userID,
			Balance:     balance,
			GamesPlayed: l.stats.GamesPlayed(userID),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		return entries[i].UserID < entries[j].UserID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
