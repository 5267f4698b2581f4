package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.Bot.Prefix)
	assert.Equal(t, "cazgino_data.json", cfg.Data.BalancesFile)
	assert.Equal(t, "cazgino_stats.json", cfg.Data.StatsFile)
	assert.Equal(t, int64(500), cfg.Ledger.StartingBalance)
	assert.Equal(t, int64(200), cfg.Reroll.Cost)

	assert.Equal(t, 30*time.Second, cfg.Roulette.JoinDuration())
	assert.Equal(t, 30*time.Second, cfg.Roulette.BetDuration())
	assert.Equal(t, 10*time.Second, cfg.Roulette.TickInterval())
	assert.Equal(t, 15, cfg.Roulette.AnimationFrames)
	assert.Equal(t, time.Second, cfg.Job.PollInterval())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(
		"bot:\n" +
			"  token: test-token\n" +
			"  prefix: \"?\"\n" +
			"admin:\n" +
			"  ids: [\"111\", \"222\"]\n" +
			"ledger:\n" +
			"  starting_balance: 1000\n" +
			"roulette:\n" +
			"  join_seconds: 5\n",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Bot.Token)
	assert.Equal(t, "?", cfg.Bot.Prefix)
	assert.Equal(t, int64(1000), cfg.Ledger.StartingBalance)
	assert.Equal(t, 5*time.Second, cfg.Roulette.JoinDuration())
	// Unset values keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Roulette.BetDuration())
}

func TestConfig_IsAdmin(t *testing.T) {
	cfg := &Config{Admin: AdminConfig{IDs: []string{"111", "222"}}}

	assert.True(t, cfg.IsAdmin("111"))
	assert.True(t, cfg.IsAdmin("222"))
	assert.False(t, cfg.IsAdmin("333"))
	assert.False(t, cfg.IsAdmin(""))

	empty := &Config{}
	assert.False(t, empty.IsAdmin("111"))
}
