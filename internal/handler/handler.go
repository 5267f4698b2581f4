// Package handler maps inbound chat commands and reaction events to game
// actions. Each handler owns the services it needs; the transport layer only
// parses the command word and builds a Ctx.
package handler

import (
	"github.com/rs/zerolog/log"

	"cazgino-bot/internal/platform"
)

// Ctx carries one inbound command invocation.
type Ctx struct {
	Messenger platform.Messenger
	ChannelID string
	UserID    string
	Username  string
	Args      []string
}

// Reply posts a message to the invoking channel, logging send failures
// instead of surfacing them to the caller.
func (c *Ctx) Reply(content string) {
	if _, err := c.Messenger.Send(c.ChannelID, content); err != nil {
		log.Error().Err(err).
			Str("channel_id", c.ChannelID).
			Str("user_id", c.UserID).
			Msg("Failed to send reply")
	}
}
