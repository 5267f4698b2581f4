package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cazgino-bot/internal/game/job"
	"cazgino-bot/internal/game/roulette"
)

func TestRegistry_SingleActiveRound(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Round())

	r1 := roulette.NewRound(nil)
	require.NoError(t, reg.StartRound(r1))
	assert.Equal(t, r1, reg.Round())

	r2 := roulette.NewRound(nil)
	assert.ErrorIs(t, reg.StartRound(r2), ErrRoundActive)
	assert.Equal(t, r1, reg.Round())
}

func TestRegistry_ClearRoundIdentityGuard(t *testing.T) {
	reg := NewRegistry()
	r1 := roulette.NewRound(nil)
	require.NoError(t, reg.StartRound(r1))

	// A stale task holding a different round must not clear the active one
	stale := roulette.NewRound(nil)
	assert.False(t, reg.ClearRound(stale))
	assert.True(t, reg.RoundIs(r1))

	assert.True(t, reg.ClearRound(r1))
	assert.Nil(t, reg.Round())
	assert.False(t, reg.ClearRound(r1), "second clear is a no-op")

	// After clearing, a new round can start
	require.NoError(t, reg.StartRound(roulette.NewRound(nil)))
}

func TestRegistry_SingleJobPerUser(t *testing.T) {
	reg := NewRegistry()
	recipe := job.Catalog()[0]

	s1 := job.NewSession("alice", recipe, nil)
	require.NoError(t, reg.StartJob("alice", s1))
	assert.ErrorIs(t, reg.StartJob("alice", job.NewSession("alice", recipe, nil)), ErrJobActive)

	// Different users are independent
	require.NoError(t, reg.StartJob("bob", job.NewSession("bob", recipe, nil)))
	assert.Equal(t, 2, reg.JobCount())

	got, ok := reg.Job("alice")
	require.True(t, ok)
	assert.Equal(t, s1, got)
}

func TestRegistry_ClearJobIdentityGuard(t *testing.T) {
	reg := NewRegistry()
	recipe := job.Catalog()[0]

	s1 := job.NewSession("alice", recipe, nil)
	require.NoError(t, reg.StartJob("alice", s1))

	// Watchdog for an older, already-removed session must not clear a new one
	require.True(t, reg.ClearJob("alice", s1))
	s2 := job.NewSession("alice", recipe, nil)
	require.NoError(t, reg.StartJob("alice", s2))
	assert.False(t, reg.ClearJob("alice", s1))

	_, ok := reg.Job("alice")
	assert.True(t, ok)
}
