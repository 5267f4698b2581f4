package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/config"
	"cazgino-bot/internal/game"
	"cazgino-bot/internal/game/roulette"
	"cazgino-bot/internal/model"
	"cazgino-bot/internal/orchestrator"
	"cazgino-bot/internal/pkg/lock"
	"cazgino-bot/internal/service"
)

// RouletteHandler serves the round lifecycle commands: start, join, bet and
// the admin stop.
type RouletteHandler struct {
	cfg      *config.Config
	registry *game.Registry
	ledger   *service.Ledger
	orch     *orchestrator.Orchestrator
	userLock *lock.UserLock
}

func NewRouletteHandler(
	cfg *config.Config,
	registry *game.Registry,
	ledger *service.Ledger,
	orch *orchestrator.Orchestrator,
	userLock *lock.UserLock,
) *RouletteHandler {
	return &RouletteHandler{
		cfg:      cfg,
		registry: registry,
		ledger:   ledger,
		orch:     orch,
		userLock: userLock,
	}
}

// HandleStart opens a new round and hands it to the orchestrator.
func (h *RouletteHandler) HandleStart(c *Ctx) {
	round := roulette.NewRound(nil)
	if err := h.registry.StartRound(round); err != nil {
		c.Reply("❌ A roulette round is already in progress!")
		return
	}

	log.Info().Str("user_id", c.UserID).Str("channel_id", c.ChannelID).Msg("Roulette round started")
	go h.orch.RunRound(c.ChannelID, round)
}

// HandleJoin registers the caller for the active round's join phase.
func (h *RouletteHandler) HandleJoin(c *Ctx) {
	round := h.registry.Round()
	if round == nil {
		c.Reply(fmt.Sprintf("❌ No active round. Start one with `%sroulette`!", h.cfg.Bot.Prefix))
		return
	}

	switch err := round.AddPlayer(c.UserID); {
	case errors.Is(err, roulette.ErrAlreadyJoined):
		c.Reply(fmt.Sprintf("⚠️ **%s**, you already joined this round!", c.Username))
	case errors.Is(err, roulette.ErrNotJoining):
		c.Reply("❌ The join phase is over!")
	case err != nil:
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to join round")
		c.Reply("❌ Could not join the round.")
	default:
		c.Reply(fmt.Sprintf("✅ **%s** joined the round! (%d players)", c.Username, round.PlayerCount()))
	}
}

// HandleBet validates and places a bet, debiting the stake up front.
func (h *RouletteHandler) HandleBet(c *Ctx) {
	if len(c.Args) < 2 {
		c.Reply(fmt.Sprintf("❌ Usage: `%sbet <choice> <amount>`", h.cfg.Bot.Prefix))
		return
	}

	choice := strings.ToLower(c.Args[0])
	amount, err := strconv.ParseInt(c.Args[1], 10, 64)
	if err != nil {
		c.Reply("❌ The amount must be a whole number!")
		return
	}

	round := h.registry.Round()
	if round == nil {
		c.Reply("❌ No active round!")
		return
	}

	h.userLock.Lock(c.UserID)
	defer h.userLock.Unlock(c.UserID)

	// Validate before moving any money; only a valid bet may debit
	if err := round.CheckBet(c.UserID, choice, amount); err != nil {
		c.Reply(betErrorMessage(err))
		return
	}

	balance, err := h.ledger.GetBalance(c.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to read balance")
		c.Reply("❌ Something went wrong, try again.")
		return
	}
	if amount > balance {
		c.Reply(fmt.Sprintf("❌ Insufficient balance! You have **%d** coins.", balance))
		return
	}

	if _, err := h.ledger.AddBalance(c.UserID, -amount, model.TxTypeBet); err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to debit stake")
		c.Reply("❌ Something went wrong, try again.")
		return
	}

	if err := round.PlaceBet(c.UserID, choice, amount); err != nil {
		// Phase flipped between the check and the write; give the stake back
		if _, rerr := h.ledger.AddBalance(c.UserID, amount, model.TxTypeRefund); rerr != nil {
			log.Error().Err(rerr).Str("user_id", c.UserID).Msg("Failed to refund stake")
		}
		c.Reply(betErrorMessage(err))
		return
	}

	c.Reply(fmt.Sprintf("✅ **%s** bet **%d** coins on `%s`!", c.Username, amount, choice))
}

// HandleStop ends the active round and refunds recorded bets. Admin only.
func (h *RouletteHandler) HandleStop(c *Ctx) {
	if !h.cfg.IsAdmin(c.UserID) {
		c.Reply("❌ Only administrators can stop a round!")
		return
	}

	if err := h.orch.StopRound(c.ChannelID); err != nil {
		c.Reply("❌ No active round to stop!")
		return
	}
	log.Info().Str("user_id", c.UserID).Msg("Roulette round stopped by admin")
}

func betErrorMessage(err error) string {
	switch {
	case errors.Is(err, roulette.ErrNotBetting):
		return "❌ Bets are not open right now!"
	case errors.Is(err, roulette.ErrNotJoined):
		return "❌ You did not join this round!"
	case errors.Is(err, roulette.ErrAlreadyBet):
		return "⚠️ You already placed a bet this round!"
	case errors.Is(err, roulette.ErrInvalidChoice):
		return "❌ Invalid choice! Pick a number (0-36), `red`, `black`, `even`, `odd`, `1-18` or `19-36`."
	case errors.Is(err, roulette.ErrInvalidAmount):
		return "❌ The amount must be greater than zero!"
	default:
		return "❌ Could not place the bet."
	}
}
