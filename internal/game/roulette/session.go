package roulette

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Phase is a stage of the round lifecycle. Transitions only move forward:
// joining -> betting -> resolved, or any unresolved phase -> cancelled.
type Phase string

const (
	PhaseJoining   Phase = "joining"
	PhaseBetting   Phase = "betting"
	PhaseResolved  Phase = "resolved"
	PhaseCancelled Phase = "cancelled"
)

// Errors reported for rejected round operations.
var (
	ErrNotJoining    = errors.New("join phase is over")
	ErrAlreadyJoined = errors.New("player already joined")
	ErrNotBetting    = errors.New("betting is not open")
	ErrNotJoined     = errors.New("player has not joined the round")
	ErrAlreadyBet    = errors.New("player already placed a bet")
	ErrInvalidChoice = errors.New("invalid bet choice")
	ErrInvalidAmount = errors.New("bet amount must be positive")
)

// Bet is a player's placed stake.
type Bet struct {
	Choice string
	Amount int64
}

// Round is one roulette round. A nil *Bet value marks a joined player who has
// not bet yet; the entry is replaced when the bet is placed.
type Round struct {
	mu      sync.Mutex
	phase   Phase
	players map[string]*Bet
	result  int
	rng     *rand.Rand
}

// NewRound creates a round in the joining phase. rng drives the result draw
// and may be fixed in tests; nil falls back to a time-seeded source.
func NewRound(rng *rand.Rand) *Round {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Round{
		phase:   PhaseJoining,
		players: make(map[string]*Bet),
		result:  -1,
		rng:     rng,
	}
}

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// AddPlayer registers a player. Valid only during the joining phase; a
// repeated join is rejected without changing state.
func (r *Round) AddPlayer(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseJoining {
		return ErrNotJoining
	}
	if _, ok := r.players[userID]; ok {
		return ErrAlreadyJoined
	}
	r.players[userID] = nil
	return nil
}

// BeginBetting moves the round from joining to betting.
func (r *Round) BeginBetting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseJoining {
		r.phase = PhaseBetting
	}
}

// Cancel moves an unresolved round to the cancelled phase so no further join
// or bet can land on it, even for a caller that already holds a reference to
// the round. A resolved round stays resolved.
func (r *Round) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseResolved {
		r.phase = PhaseCancelled
	}
}

// CheckBet verifies every bet precondition without changing state: betting
// phase, registered player, no prior bet, valid choice, positive amount.
// Balance sufficiency is the caller's responsibility, checked under the
// user's lock before the stake is debited.
func (r *Round) CheckBet(userID, choice string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkBetLocked(userID, choice, amount)
}

func (r *Round) checkBetLocked(userID, choice string, amount int64) error {
	if r.phase != PhaseBetting {
		return ErrNotBetting
	}
	bet, ok := r.players[userID]
	if !ok {
		return ErrNotJoined
	}
	if bet != nil {
		return ErrAlreadyBet
	}
	if !ValidChoice(choice) {
		return ErrInvalidChoice
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// PlaceBet records a player's bet. The caller must already have debited the
// stake; on error nothing is recorded and the caller must refund.
func (r *Round) PlaceBet(userID, choice string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBetLocked(userID, choice, amount); err != nil {
		return err
	}
	r.players[userID] = &Bet{Choice: choice, Amount: amount}
	return nil
}

// PlayerCount returns the number of registered players.
func (r *Round) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// BetCount returns the number of players with a placed bet.
func (r *Round) BetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, bet := range r.players {
		if bet != nil {
			count++
		}
	}
	return count
}

// DropNonBettors removes every player without a placed bet and returns the
// number of remaining bettors. Dropped players never paid anything, so there
// is nothing to refund.
func (r *Round) DropNonBettors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, bet := range r.players {
		if bet == nil {
			delete(r.players, userID)
		}
	}
	return len(r.players)
}

// Bets returns a snapshot of all placed bets.
func (r *Round) Bets() map[string]Bet {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Bet, len(r.players))
	for userID, bet := range r.players {
		if bet != nil {
			out[userID] = *bet
		}
	}
	return out
}

// Spin draws the result uniformly from [0,36], resolves the round and returns
// the result. The draw happens exactly once; later calls return the stored
// result.
func (r *Round) Spin() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result < 0 {
		r.result = r.rng.Intn(WheelMax + 1)
		r.phase = PhaseResolved
	}
	return r.result
}

// Result returns the spin result, or -1 if the round has not been resolved.
func (r *Round) Result() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Payout returns the credited amount for a bet against this round's result.
func (r *Round) Payout(choice string, bet int64) int64 {
	r.mu.Lock()
	result := r.result
	r.mu.Unlock()
	if result < 0 {
		return 0
	}
	return Winnings(choice, result, bet)
}
