// Package platform abstracts the chat platform into a message-and-reaction
// event surface, so game logic never depends on the chat SDK.
package platform

// Messenger is the outbound surface of the chat platform: posting and editing
// messages, managing reactions and resolving display names.
type Messenger interface {
	// Send posts content to a channel and returns the new message's ID.
	Send(channelID, content string) (messageID string, err error)

	// Edit replaces the content of an existing message.
	Edit(channelID, messageID, content string) error

	// React adds the bot's own reaction to a message.
	React(channelID, messageID, emoji string) error

	// RemoveReaction removes a specific user's reaction from a message.
	RemoveReaction(channelID, messageID, emoji, userID string) error

	// ResolveName returns a user's display name. Callers substitute a
	// placeholder when the lookup fails.
	ResolveName(userID string) (string, error)
}

// Mention formats a user ID as an inline mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ReactionEvent is one inbound reaction-add, already filtered to exclude the
// bot's own reactions.
type ReactionEvent struct {
	UserID    string
	ChannelID string
	MessageID string
	Emoji     string
}
