package handler

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/config"
	"cazgino-bot/internal/game"
	"cazgino-bot/internal/game/job"
	"cazgino-bot/internal/model"
	"cazgino-bot/internal/orchestrator"
	"cazgino-bot/internal/pkg/lock"
	"cazgino-bot/internal/platform"
	"cazgino-bot/internal/service"
)

// JobHandler serves the solo reaction minigame and the reroll gate.
type JobHandler struct {
	cfg      *config.Config
	registry *game.Registry
	ledger   *service.Ledger
	orch     *orchestrator.Orchestrator
	userLock *lock.UserLock

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewJobHandler creates a JobHandler. rng may be fixed in tests; nil falls
// back to a time-seeded source.
func NewJobHandler(
	cfg *config.Config,
	registry *game.Registry,
	ledger *service.Ledger,
	orch *orchestrator.Orchestrator,
	userLock *lock.UserLock,
	rng *rand.Rand,
) *JobHandler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &JobHandler{
		cfg:      cfg,
		registry: registry,
		ledger:   ledger,
		orch:     orch,
		userLock: userLock,
		rng:      rng,
	}
}

// HandleStart deals a random order, posts it with a shuffled ingredient
// palette and arms the expiry watchdog.
func (h *JobHandler) HandleStart(c *Ctx) {
	h.rngMu.Lock()
	recipe := job.PickRecipe(h.rng)
	palette := job.ShuffledPalette(recipe, h.rng)
	h.rngMu.Unlock()

	s := job.NewSession(c.UserID, recipe, nil)
	if err := h.registry.StartJob(c.UserID, s); err != nil {
		c.Reply(fmt.Sprintf("⚠️ **%s**, you already have an order in progress!", c.Username))
		return
	}

	content := fmt.Sprintf(
		"👨‍🍳 **NEW ORDER for %s!**\n\n"+
			"**%s** — reward: **%d coins**\n\n"+
			"React with the ingredients **in this order**:\n%s\n\n"+
			"⏰ You have **%d seconds**!",
		c.Username, recipe.Name, recipe.Reward,
		strings.Join(recipe.Steps, " → "),
		int(recipe.TimeLimit.Seconds()))

	messageID, err := c.Messenger.Send(c.ChannelID, content)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to post job order")
		h.registry.ClearJob(c.UserID, s)
		return
	}
	s.SetMessage(c.ChannelID, messageID)

	// Seed the full ingredient set in random order so the answer is a pick,
	// not a copy
	for _, emoji := range palette {
		if err := c.Messenger.React(c.ChannelID, messageID, emoji); err != nil {
			log.Debug().Err(err).Str("emoji", emoji).Msg("Failed to pre-add reaction")
		}
	}

	log.Info().Str("user_id", c.UserID).Str("recipe", recipe.Key).Msg("Job started")
	go h.orch.WatchJob(c.ChannelID, s)
}

// HandleReroll debits the flat reroll cost. The debit is the whole mechanic.
func (h *JobHandler) HandleReroll(c *Ctx) {
	cost := h.cfg.Reroll.Cost

	h.userLock.Lock(c.UserID)
	defer h.userLock.Unlock(c.UserID)

	balance, err := h.ledger.GetBalance(c.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to read balance")
		c.Reply("❌ Something went wrong, try again.")
		return
	}
	if balance < cost {
		c.Reply(fmt.Sprintf("❌ You need at least **%d** coins to reroll! You have **%d**.", cost, balance))
		return
	}

	newBalance, err := h.ledger.AddBalance(c.UserID, -cost, model.TxTypeReroll)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to debit reroll")
		c.Reply("❌ Something went wrong, try again.")
		return
	}
	c.Reply(fmt.Sprintf("🎲 **%s** rerolled for **%d** coins! Balance: **%d**", c.Username, cost, newBalance))
}

// HandleReaction advances the acting user's job when the reaction matches
// the next expected ingredient. Wrong picks are retracted and cost nothing.
func (h *JobHandler) HandleReaction(m platform.Messenger, ev platform.ReactionEvent) {
	s, ok := h.registry.Job(ev.UserID)
	if !ok || !s.MatchesMessage(ev.MessageID) {
		return
	}

	if s.IsExpired() {
		if h.registry.ClearJob(ev.UserID, s) {
			if _, err := m.Send(ev.ChannelID, fmt.Sprintf(
				"⏰ %s Time's up! You didn't finish the order in time.",
				platform.Mention(ev.UserID))); err != nil {
				log.Error().Err(err).Msg("Failed to send timeout message")
			}
		}
		return
	}

	expected, ok := s.CurrentExpected()
	if !ok {
		return
	}

	if ev.Emoji != expected {
		if err := m.RemoveReaction(ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID); err != nil {
			log.Debug().Err(err).Msg("Failed to retract wrong reaction")
		}
		if _, err := m.Send(ev.ChannelID, fmt.Sprintf(
			"❌ %s Wrong ingredient! The order needs %s next.",
			platform.Mention(ev.UserID), expected)); err != nil {
			log.Error().Err(err).Msg("Failed to send wrong-ingredient message")
		}
		return
	}

	if !s.Advance() {
		done, total := s.Progress()
		next, _ := s.CurrentExpected()
		if _, err := m.Send(ev.ChannelID, fmt.Sprintf(
			"✅ %s %d/%d! Next ingredient: %s",
			platform.Mention(ev.UserID), done, total, next)); err != nil {
			log.Error().Err(err).Msg("Failed to send progress message")
		}
		return
	}

	// Recipe fully consumed: settle exactly once
	s.MarkCompleted()
	if !h.registry.ClearJob(ev.UserID, s) {
		return
	}

	reward := s.Recipe().Reward

	var newBalance int64
	err := h.userLock.WithLock(ev.UserID, func() error {
		var err error
		newBalance, err = h.ledger.AddBalance(ev.UserID, reward, model.TxTypeJobReward)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", ev.UserID).Msg("Failed to credit job reward")
		return
	}

	log.Info().Str("user_id", ev.UserID).Str("recipe", s.Recipe().Key).Int64("reward", reward).Msg("Job completed")
	if _, err := m.Send(ev.ChannelID, fmt.Sprintf(
		"🎉 %s Order complete! **+%d coins** (balance: **%d**)",
		platform.Mention(ev.UserID), reward, newBalance)); err != nil {
		log.Error().Err(err).Msg("Failed to send completion message")
	}
}
