// Package orchestrator drives the time-based game flows: the roulette round
// timeline (countdowns, reveal, payout) and the per-job expiry watchdog. All
// timers re-check the session registry on wake, so a round or job that was
// cancelled elsewhere is left alone.
package orchestrator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/config"
	"cazgino-bot/internal/game"
	"cazgino-bot/internal/game/job"
	"cazgino-bot/internal/game/roulette"
	"cazgino-bot/internal/model"
	"cazgino-bot/internal/pkg/lock"
	"cazgino-bot/internal/platform"
	"cazgino-bot/internal/service"
)

// ErrNoActiveRound is returned by StopRound when there is nothing to stop.
var ErrNoActiveRound = errors.New("no active round")

// Orchestrator owns the long-lived timer tasks of both games.
type Orchestrator struct {
	cfg       *config.Config
	registry  *game.Registry
	ledger    *service.Ledger
	messenger platform.Messenger
	userLock  *lock.UserLock

	// animRng only feeds the cosmetic reveal frames; the authoritative
	// result is drawn by the round itself before any frame is generated.
	animRng *rand.Rand

	animBaseDelay time.Duration
	animStepDelay time.Duration
	sleep         func(time.Duration)
}

// New creates an Orchestrator. animRng may be fixed in tests; nil falls back
// to a time-seeded source.
func New(
	cfg *config.Config,
	registry *game.Registry,
	ledger *service.Ledger,
	messenger platform.Messenger,
	userLock *lock.UserLock,
	animRng *rand.Rand,
) *Orchestrator {
	if animRng == nil {
		animRng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{
		cfg:           cfg,
		registry:      registry,
		ledger:        ledger,
		messenger:     messenger,
		userLock:      userLock,
		animRng:       animRng,
		animBaseDelay: 300 * time.Millisecond,
		animStepDelay: 100 * time.Millisecond,
		sleep:         time.Sleep,
	}
}

// RunRound drives one roulette round from the join phase to payout. It is
// meant to run as its own goroutine; it exits quietly as soon as the round it
// was started for is no longer the registered one.
func (o *Orchestrator) RunRound(channelID string, round *roulette.Round) {
	prefix := o.cfg.Bot.Prefix

	statusID, err := o.messenger.Send(channelID, o.joinPrompt(round, o.cfg.Roulette.JoinDuration()))
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to open roulette round")
		o.registry.ClearRound(round)
		return
	}

	ok := o.countdown(round, o.cfg.Roulette.JoinDuration(), func(remaining time.Duration) {
		if err := o.messenger.Edit(channelID, statusID, o.joinPrompt(round, remaining)); err != nil {
			log.Debug().Err(err).Msg("Failed to edit join status message")
		}
	})
	if !ok {
		return
	}

	if round.PlayerCount() == 0 {
		if o.registry.ClearRound(round) {
			o.send(channelID, "❌ Nobody joined! Round cancelled.")
		}
		return
	}

	round.BeginBetting()
	o.send(channelID, o.bettingPrompt(round, prefix))

	ok = o.countdown(round, o.cfg.Roulette.BetDuration(), func(remaining time.Duration) {
		o.send(channelID, fmt.Sprintf("⏰ **%d seconds** left to bet! (%d/%d have bet)",
			int(remaining.Seconds()), round.BetCount(), round.PlayerCount()))
	})
	if !ok {
		return
	}

	if round.DropNonBettors() == 0 {
		if o.registry.ClearRound(round) {
			o.send(channelID, "❌ Nobody placed a bet! Round cancelled.")
		}
		return
	}

	result := round.Spin()
	o.runRevealAnimation(channelID, result)

	// Claim the round before paying out; if an admin stop won the race the
	// stakes were already refunded and this task must not pay anything.
	if !o.registry.ClearRound(round) {
		return
	}

	o.distributePayouts(channelID, round)
	o.send(channelID, fmt.Sprintf("✅ Round over! Start a new one with `%sroulette`", prefix))
}

// countdown sleeps through a phase in tick-sized steps, broadcasting the
// remaining time after each wake. Returns false if the round was cancelled
// while sleeping.
func (o *Orchestrator) countdown(round *roulette.Round, total time.Duration, broadcast func(remaining time.Duration)) bool {
	tick := o.cfg.Roulette.TickInterval()
	if tick <= 0 {
		tick = total
	}
	for remaining := total; remaining > 0; {
		step := tick
		if step > remaining {
			step = remaining
		}
		o.sleep(step)
		remaining -= step

		// Stale-wake guard: the round may have been stopped while asleep
		if !o.registry.RoundIs(round) {
			return false
		}
		if remaining > 0 {
			broadcast(remaining)
		}
	}
	return true
}

// runRevealAnimation edits one message through random intermediate pockets
// before landing on the true result. Purely cosmetic: the result was drawn
// before the first frame.
func (o *Orchestrator) runRevealAnimation(channelID string, result int) {
	animID, err := o.messenger.Send(channelID, "🎰 **THE WHEEL IS SPINNING...**")
	if err != nil {
		log.Debug().Err(err).Msg("Failed to send animation message")
		return
	}

	frames := o.cfg.Roulette.AnimationFrames
	for i := 0; i < frames; i++ {
		n := o.animRng.Intn(roulette.WheelMax + 1)
		if err := o.messenger.Edit(channelID, animID, spinFrame(n)); err != nil {
			log.Debug().Err(err).Msg("Failed to edit animation frame")
		}
		o.sleep(o.animBaseDelay + time.Duration(i)*o.animStepDelay)
	}

	if err := o.messenger.Edit(channelID, animID, resultFrame(result)); err != nil {
		log.Debug().Err(err).Msg("Failed to edit final animation frame")
	}
	o.sleep(o.animBaseDelay)
}

// distributePayouts records a play for every remaining bettor, credits
// winners and broadcasts the summary.
func (o *Orchestrator) distributePayouts(channelID string, round *roulette.Round) {
	bets := round.Bets()
	result := round.Result()

	userIDs := make([]string, 0, len(bets))
	for userID := range bets {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	var winners, losers []string
	for _, userID := range userIDs {
		bet := bets[userID]

		if err := o.ledger.RecordPlay(userID); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to record play")
		}

		name := o.displayName(userID)
		winnings := round.Payout(bet.Choice, bet.Amount)
		if winnings > 0 {
			err := o.userLock.WithLock(userID, func() error {
				_, err := o.ledger.AddBalance(userID, winnings, model.TxTypePayout)
				return err
			})
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to credit winnings")
			}
			profit := winnings - bet.Amount
			winners = append(winners, fmt.Sprintf(
				"✅ **%s** — bet %d on `%s` → **+%d** (credited: %d)",
				name, bet.Amount, bet.Choice, profit, winnings))
		} else {
			losers = append(losers, fmt.Sprintf(
				"❌ **%s** — bet %d on `%s` → **lost**", name, bet.Amount, bet.Choice))
		}
	}

	var sb strings.Builder
	sb.WriteString("🏆 **RESULTS:**\n\n")
	if len(winners) > 0 {
		sb.WriteString(strings.Join(winners, "\n"))
		sb.WriteString("\n\n")
	}
	if len(losers) > 0 {
		sb.WriteString(strings.Join(losers, "\n"))
	}
	o.send(channelID, sb.String())

	log.Info().
		Str("channel_id", channelID).
		Int("result", result).
		Int("winners", len(winners)).
		Int("losers", len(losers)).
		Msg("Roulette round settled")
}

// StopRound terminates the active round from any phase, refunding every
// recorded bet. Only administrators may reach this path.
func (o *Orchestrator) StopRound(channelID string) error {
	round := o.registry.Round()
	if round == nil {
		return ErrNoActiveRound
	}

	// Cancel before snapshotting so a bet handler that already passed its
	// checks cannot record a stake after the refund set is fixed; its
	// PlaceBet fails and the handler's own refund branch returns the money.
	round.Cancel()

	bets := round.Bets()
	// Claiming the round here makes the countdown task exit on its next
	// wake; if it already claimed it, there is nothing left to stop.
	if !o.registry.ClearRound(round) {
		return ErrNoActiveRound
	}

	userIDs := make([]string, 0, len(bets))
	for userID := range bets {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		amount := bets[userID].Amount
		err := o.userLock.WithLock(userID, func() error {
			_, err := o.ledger.AddBalance(userID, amount, model.TxTypeRefund)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to refund bet")
		}
	}

	o.send(channelID, "✅ Round stopped and all bets refunded!")
	log.Info().Str("channel_id", channelID).Int("refunds", len(bets)).Msg("Roulette round stopped by admin")
	return nil
}

// WatchJob polls a job session until it completes, disappears or expires.
// Expiry here is the only path that ends a job for a user who never reacts
// again.
func (o *Orchestrator) WatchJob(channelID string, s *job.Session) {
	userID := s.UserID()
	interval := o.cfg.Job.PollInterval()
	if interval <= 0 {
		interval = time.Second
	}

	for {
		o.sleep(interval)

		current, ok := o.registry.Job(userID)
		if !ok || current != s {
			// Completed or replaced while asleep
			return
		}
		if s.Completed() {
			return
		}
		if s.IsExpired() {
			if o.registry.ClearJob(userID, s) {
				o.send(channelID, fmt.Sprintf(
					"⏰ %s Time's up! You didn't finish the order in time.",
					platform.Mention(userID)))
				log.Info().Str("user_id", userID).Str("recipe", s.Recipe().Key).Msg("Job timed out")
			}
			return
		}
	}
}

func (o *Orchestrator) send(channelID, content string) {
	if _, err := o.messenger.Send(channelID, content); err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to send message")
	}
}

// displayName resolves a user's name, substituting a placeholder when the
// lookup fails so a payout summary never aborts on a lookup error.
func (o *Orchestrator) displayName(userID string) string {
	name, err := o.messenger.ResolveName(userID)
	if err != nil || name == "" {
		return fmt.Sprintf("Player %s", userID)
	}
	return name
}

func (o *Orchestrator) joinPrompt(round *roulette.Round, remaining time.Duration) string {
	return fmt.Sprintf(
		"🎰 **CAZGINO — ROULETTE**\n\n"+
			"A new roulette round is starting!\n\n"+
			"**Phase 1: JOIN THE ROUND**\n"+
			"⏰ **%d seconds** left to join!\n\n"+
			"Type `%sjoin` to play.\n\n"+
			"Players joined: **%d**",
		int(remaining.Seconds()), o.cfg.Bot.Prefix, round.PlayerCount())
}

func (o *Orchestrator) bettingPrompt(round *roulette.Round, prefix string) string {
	return fmt.Sprintf(
		"🎰 **PHASE 2: PLACE YOUR BETS**\n\n"+
			"**%d players** are in!\n\n"+
			"⏰ You have **%d seconds** to bet!\n\n"+
			"**Command:** `%sbet <choice> <amount>`\n\n"+
			"**Choices:**\n"+
			"• Exact number: `0` to `36` (pays x%d)\n"+
			"• Color: `red` or `black` (pays x%d)\n"+
			"• Parity: `even` or `odd` (pays x%d)\n"+
			"• Half: `1-18` or `19-36` (pays x%d)\n\n"+
			"**Examples:**\n"+
			"• `%sbet red 50`\n"+
			"• `%sbet 17 100`\n"+
			"• `%sbet even 25`",
		round.PlayerCount(), o.cfg.Roulette.BetSeconds, prefix,
		roulette.ExactMultiplier, roulette.OutsideMultiplier,
		roulette.OutsideMultiplier, roulette.OutsideMultiplier,
		prefix, prefix, prefix)
}

func colorEmoji(n int) string {
	switch roulette.ColorOf(n) {
	case roulette.ColorRed:
		return "🔴"
	case roulette.ColorBlack:
		return "⚫"
	default:
		return "🟢"
	}
}

func spinFrame(n int) string {
	emoji := colorEmoji(n)
	return fmt.Sprintf("🎰 **THE WHEEL IS SPINNING...**\n\n%s **%d** %s\n\n%s",
		emoji, n, emoji, strings.Repeat("▬", 20))
}

func resultFrame(result int) string {
	emoji := colorEmoji(result)
	color := strings.ToUpper(string(roulette.ColorOf(result)))
	bar := strings.Repeat("=", 20)
	return fmt.Sprintf("🎰 **ROULETTE RESULT**\n\n%s\n%s **%d** %s\n(%s)\n%s\n\nCalculating winnings...",
		bar, emoji, result, emoji, color, bar)
}
