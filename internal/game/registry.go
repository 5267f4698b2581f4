// Package game holds the process-wide session registry: at most one active
// roulette round and at most one job per user.
package game

import (
	"errors"
	"sync"

	"cazgino-bot/internal/game/job"
	"cazgino-bot/internal/game/roulette"
)

// Errors reported for rejected session starts.
var (
	ErrRoundActive = errors.New("a roulette round is already running")
	ErrJobActive   = errors.New("user already has an active job")
)

// Registry is the single owner of live game sessions. Clear operations take
// the session they expect to remove, so a timer that wakes after its session
// was replaced cannot tear down the newer one.
type Registry struct {
	mu    sync.Mutex
	round *roulette.Round
	jobs  map[string]*job.Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*job.Session),
	}
}

// StartRound installs r as the active round. Fails if one is already active.
func (reg *Registry) StartRound(r *roulette.Round) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.round != nil {
		return ErrRoundActive
	}
	reg.round = r
	return nil
}

// Round returns the active round, or nil.
func (reg *Registry) Round() *roulette.Round {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.round
}

// RoundIs reports whether r is still the active round. Countdown tasks use
// this as their stale-wake guard.
func (reg *Registry) RoundIs(r *roulette.Round) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.round != nil && reg.round == r
}

// ClearRound removes r from the registry if it is still the active round.
// Returns false when a different (or no) round is active.
func (reg *Registry) ClearRound(r *roulette.Round) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.round == nil || reg.round != r {
		return false
	}
	reg.round = nil
	return true
}

// StartJob installs s as userID's active job. Fails if the user has one.
func (reg *Registry) StartJob(userID string, s *job.Session) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.jobs[userID]; ok {
		return ErrJobActive
	}
	reg.jobs[userID] = s
	return nil
}

// Job returns userID's active job, if any.
func (reg *Registry) Job(userID string) (*job.Session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	s, ok := reg.jobs[userID]
	return s, ok
}

// ClearJob removes s from the registry if it is still userID's active job.
// Returns false when the user's job is absent or a different session.
func (reg *Registry) ClearJob(userID string, s *job.Session) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	current, ok := reg.jobs[userID]
	if !ok || current != s {
		return false
	}
	delete(reg.jobs, userID)
	return true
}

// JobCount returns the number of active jobs.
func (reg *Registry) JobCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.jobs)
}
