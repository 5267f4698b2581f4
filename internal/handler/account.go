package handler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/config"
	"cazgino-bot/internal/game/job"
	"cazgino-bot/internal/game/roulette"
	"cazgino-bot/internal/service"
)

// AccountHandler serves balance, leaderboard and rules.
type AccountHandler struct {
	cfg    *config.Config
	ledger *service.Ledger
}

func NewAccountHandler(cfg *config.Config, ledger *service.Ledger) *AccountHandler {
	return &AccountHandler{cfg: cfg, ledger: ledger}
}

func (h *AccountHandler) HandleBalance(c *Ctx) {
	balance, err := h.ledger.GetBalance(c.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.UserID).Msg("Failed to read balance")
		c.Reply("❌ Something went wrong, try again.")
		return
	}
	c.Reply(fmt.Sprintf("💰 **%s**, your balance: **%d** coins", c.Username, balance))
}

const leaderboardSize = 10

func (h *AccountHandler) HandleLeaderboard(c *Ctx) {
	entries := h.ledger.Leaderboard(leaderboardSize)
	if len(entries) == 0 {
		c.Reply("📊 Nobody has played yet!")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	sb.WriteString("🏆 **CAZGINO LEADERBOARD**\n\n")
	for i, entry := range entries {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		name, err := c.Messenger.ResolveName(entry.UserID)
		if err != nil || name == "" {
			name = fmt.Sprintf("Player %s", entry.UserID)
		}
		sb.WriteString(fmt.Sprintf("%s **%s** — %d coins (%d games)\n",
			rank, name, entry.Balance, entry.GamesPlayed))
	}
	c.Reply(sb.String())
}

// HandleRules renders the help text. The job section is generated from the
// recipe catalog so it never drifts from what the game actually serves.
func (h *AccountHandler) HandleRules(c *Ctx) {
	prefix := h.cfg.Bot.Prefix

	var sb strings.Builder
	sb.WriteString("📖 **CAZGINO RULES**\n\n")
	sb.WriteString("🎰 **Roulette**\n")
	sb.WriteString(fmt.Sprintf("`%sroulette` starts a round, `%sjoin` gets you in, then `%sbet <choice> <amount>`.\n", prefix, prefix, prefix))
	sb.WriteString(fmt.Sprintf("• Exact number `0`-`36`: pays **x%d**\n", roulette.ExactMultiplier))
	sb.WriteString(fmt.Sprintf("• `red` / `black`, `even` / `odd`, `1-18` / `19-36`: pays **x%d**\n", roulette.OutsideMultiplier))
	sb.WriteString("• `0` is green: every outside bet loses\n\n")

	sb.WriteString("👨‍🍳 **Job**\n")
	sb.WriteString(fmt.Sprintf("`%sjob` serves you a random order. React with the ingredients **in order** before time runs out!\n", prefix))
	for _, recipe := range job.Catalog() {
		sb.WriteString(fmt.Sprintf("• %s %s — %d coins, %ds\n",
			strings.Join(recipe.Steps, ""), recipe.Name, recipe.Reward, int(recipe.TimeLimit.Seconds())))
	}
	sb.WriteString("\n")

	sb.WriteString("🎲 **Other commands**\n")
	sb.WriteString(fmt.Sprintf("`%sbalance` your coins • `%sleaderboard` top players • `%sreroll` tempt fate for %d coins\n",
		prefix, prefix, prefix, h.cfg.Reroll.Cost))
	c.Reply(sb.String())
}
