// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Data     DataConfig     `mapstructure:"data"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Roulette RouletteConfig `mapstructure:"roulette"`
	Job      JobConfig      `mapstructure:"job"`
	Reroll   RerollConfig   `mapstructure:"reroll"`
}

// BotConfig holds Discord bot configuration.
type BotConfig struct {
	Token  string `mapstructure:"token"`
	Prefix string `mapstructure:"prefix"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []string `mapstructure:"ids"`
}

// DataConfig holds the paths of the persisted stores.
type DataConfig struct {
	BalancesFile string `mapstructure:"balances_file"`
	StatsFile    string `mapstructure:"stats_file"`
}

// LedgerConfig holds currency configuration.
type LedgerConfig struct {
	StartingBalance int64 `mapstructure:"starting_balance"`
}

// RouletteConfig holds the roulette round timeline configuration.
type RouletteConfig struct {
	JoinSeconds     int `mapstructure:"join_seconds"`
	BetSeconds      int `mapstructure:"bet_seconds"`
	TickSeconds     int `mapstructure:"tick_seconds"`
	AnimationFrames int `mapstructure:"animation_frames"`
}

// JoinDuration returns the join phase length.
func (r *RouletteConfig) JoinDuration() time.Duration {
	return time.Duration(r.JoinSeconds) * time.Second
}

// BetDuration returns the betting phase length.
func (r *RouletteConfig) BetDuration() time.Duration {
	return time.Duration(r.BetSeconds) * time.Second
}

// TickInterval returns the countdown broadcast interval.
func (r *RouletteConfig) TickInterval() time.Duration {
	return time.Duration(r.TickSeconds) * time.Second
}

// JobConfig holds job watchdog configuration.
type JobConfig struct {
	PollIntervalMS int `mapstructure:"poll_interval_ms"`
}

// PollInterval returns how often a job watchdog re-checks its session.
func (j *JobConfig) PollInterval() time.Duration {
	return time.Duration(j.PollIntervalMS) * time.Millisecond
}

// RerollConfig holds the reroll gate configuration.
type RerollConfig struct {
	Cost int64 `mapstructure:"cost"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, ROULETTE_JOIN_SECONDS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.prefix", "!")

	v.SetDefault("data.balances_file", "cazgino_data.json")
	v.SetDefault("data.stats_file", "cazgino_stats.json")

	v.SetDefault("ledger.starting_balance", 500)

	v.SetDefault("roulette.join_seconds", 30)
	v.SetDefault("roulette.bet_seconds", 30)
	v.SetDefault("roulette.tick_seconds", 10)
	v.SetDefault("roulette.animation_frames", 15)

	v.SetDefault("job.poll_interval_ms", 1000)

	v.SetDefault("reroll.cost", 200)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
