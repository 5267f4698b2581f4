package bot

import (
	"github.com/bwmarrin/discordgo"

	"cazgino-bot/internal/platform"
)

// discordMessenger adapts a discordgo session to the platform.Messenger
// interface the game layers talk to.
type discordMessenger struct {
	session *discordgo.Session
}

var _ platform.Messenger = (*discordMessenger)(nil)

func (d *discordMessenger) Send(channelID, content string) (string, error) {
	msg, err := d.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (d *discordMessenger) Edit(channelID, messageID, content string) error {
	_, err := d.session.ChannelMessageEdit(channelID, messageID, content)
	return err
}

func (d *discordMessenger) React(channelID, messageID, emoji string) error {
	return d.session.MessageReactionAdd(channelID, messageID, emoji)
}

func (d *discordMessenger) RemoveReaction(channelID, messageID, emoji, userID string) error {
	return d.session.MessageReactionRemove(channelID, messageID, emoji, userID)
}

func (d *discordMessenger) ResolveName(userID string) (string, error) {
	user, err := d.session.User(userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
