// Package model defines the shared data models for the casino bot.
package model

// LeaderboardEntry is one row of the balance ranking, restricted to players
// with at least one recorded play.
type LeaderboardEntry struct {
	UserID      string
	Balance     int64
	GamesPlayed int
}

// Balance-change reasons used for structured logging of ledger mutations.
const (
	TxTypeInit      = "init"       // First balance access, starting balance granted
	TxTypeBet       = "bet"        // Roulette bet placed, stake debited
	TxTypePayout    = "payout"     // Roulette winnings credited
	TxTypeRefund    = "refund"     // Bet returned after an admin stop
	TxTypeJobReward = "job_reward" // Job completed within the time limit
	TxTypeReroll    = "reroll"     // Reroll fee debited
	TxTypeAdminSet  = "admin_set"  // Balance overwritten by an administrator
)
