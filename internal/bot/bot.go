// Package bot wires the Discord gateway to the command handlers. It parses
// the command word, builds a handler context and dispatches; all game logic
// lives below it.
package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/config"
	"cazgino-bot/internal/handler"
	"cazgino-bot/internal/platform"
)

// Dependencies bundles everything the bot needs to serve commands.
type Dependencies struct {
	Config          *config.Config
	RouletteHandler *handler.RouletteHandler
	AccountHandler  *handler.AccountHandler
	JobHandler      *handler.JobHandler
}

// Bot owns the Discord session and the command routing.
type Bot struct {
	session   *discordgo.Session
	messenger platform.Messenger
	deps      *Dependencies
}

// New creates a Bot and registers its gateway handlers. It does not connect;
// call Start for that. The handler fields of deps may be filled in after New
// as long as they are set before Start: the orchestrator needs this bot's
// messenger, and the handlers need the orchestrator.
func New(deps *Dependencies) (*Bot, error) {
	session, err := discordgo.New("Bot " + deps.Config.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	b := &Bot{
		session:   session,
		messenger: &discordMessenger{session: session},
		deps:      deps,
	}

	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onReactionAdd)
	return b, nil
}

// dispatch routes a parsed command word to its handler. Resolution happens
// per call so deps can be completed after New.
func (b *Bot) dispatch(command string) (func(*handler.Ctx), bool) {
	switch command {
	case "roulette":
		return b.deps.RouletteHandler.HandleStart, true
	case "join":
		return b.deps.RouletteHandler.HandleJoin, true
	case "bet":
		return b.deps.RouletteHandler.HandleBet, true
	case "stop":
		return b.deps.RouletteHandler.HandleStop, true
	case "balance":
		return b.deps.AccountHandler.HandleBalance, true
	case "leaderboard":
		return b.deps.AccountHandler.HandleLeaderboard, true
	case "rules":
		return b.deps.AccountHandler.HandleRules, true
	case "job":
		return b.deps.JobHandler.HandleStart, true
	case "reroll":
		return b.deps.JobHandler.HandleReroll, true
	default:
		return nil, false
	}
}

// Messenger exposes the platform adapter for the startup wiring.
func (b *Bot) Messenger() platform.Messenger {
	return b.messenger
}

// Start opens the gateway connection and begins serving events.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Info().Str("username", b.session.State.User.Username).Msg("Bot connected")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := b.deps.Config.Bot.Prefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}

	handle, ok := b.dispatch(fields[0])
	if !ok {
		return
	}

	log.Debug().
		Str("command", fields[0]).
		Str("user_id", m.Author.ID).
		Str("channel_id", m.ChannelID).
		Msg("Command received")

	// Each event runs on its own goroutine via discordgo's dispatcher;
	// handlers serialize shared state themselves
	handle(&handler.Ctx{
		Messenger: b.messenger,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Args:      fields[1:],
	})
}

func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	b.deps.JobHandler.HandleReaction(b.messenger, platform.ReactionEvent{
		UserID:    r.UserID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		Emoji:     r.Emoji.Name,
	})
}
