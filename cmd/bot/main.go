// Package main is the entry point for the Cazgino Discord bot.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/bot"
	"cazgino-bot/internal/config"
	"cazgino-bot/internal/game"
	"cazgino-bot/internal/handler"
	"cazgino-bot/internal/orchestrator"
	"cazgino-bot/internal/pkg/lock"
	"cazgino-bot/internal/service"
	"cazgino-bot/internal/store"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Open the file-backed stores
	balances, err := store.OpenBalances(cfg.Data.BalancesFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.BalancesFile).Msg("Failed to open balance store")
	}
	stats, err := store.OpenStats(cfg.Data.StatsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.StatsFile).Msg("Failed to open stats store")
	}

	// Initialize the ledger
	ledger := service.NewLedger(balances, stats, cfg.Ledger.StartingBalance)
	log.Info().Int("known_players", ledger.KnownPlayers()).Msg("Ledger loaded")

	// Initialize user lock and session registry
	userLock := lock.NewUserLock()
	registry := game.NewRegistry()

	// Create bot first; the orchestrator broadcasts through its messenger
	deps := &bot.Dependencies{Config: cfg}
	discordBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	orch := orchestrator.New(cfg, registry, ledger, discordBot.Messenger(), userLock, nil)

	deps.RouletteHandler = handler.NewRouletteHandler(cfg, registry, ledger, orch, userLock)
	deps.AccountHandler = handler.NewAccountHandler(cfg, ledger)
	deps.JobHandler = handler.NewJobHandler(cfg, registry, ledger, orch, userLock, nil)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Msg("Bot is starting...")
	if err := discordBot.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bot")
	}

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	if err := discordBot.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to close discord session")
	}
	log.Info().Msg("Bot stopped gracefully")
}
