package ticketing

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
)

// Gateway is the set of chat platform calls the controller makes.
type Gateway interface {
	// BotUserID returns the user ID of the bot itself.
	BotUserID() string

	// Channel gets a channel.
	Channel(channelID string) (*discordgo.Channel, error)

	// GuildRoles lists the roles of a guild.
	GuildRoles(guildID string) ([]*discordgo.Role, error)

	// CreateChannel creates a channel in a guild.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// RenameChannel sets the name of a channel.
	RenameChannel(channelID, name string) error

	// SetPermission creates or replaces a permission overwrite on a channel.
	SetPermission(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error

	// DeletePermission removes a permission overwrite from a channel.
	DeletePermission(channelID, targetID string) error

	// ChannelMessages gets up to limit of the most recent messages in a channel, newest first.
	ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error)

	// SendMessage sends a message to a channel.
	SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)

	// PinMessage pins a message in a channel.
	PinMessage(channelID, messageID string) error

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error
}

// Actor is the guild member performing an operation.
type Actor struct {
	ID       string
	Username string
	RoleIDs  []string

	// Permissions are the computed guild permissions of the member.
	Permissions int64
}

// ActorFromMember builds an actor from an interaction member.
func ActorFromMember(m *discordgo.Member) Actor {
	if m == nil || m.User == nil {
		return Actor{}
	}
	return Actor{
		ID:          m.User.ID,
		Username:    m.User.Username,
		RoleIDs:     m.Roles,
		Permissions: m.Permissions,
	}
}

func (a Actor) hasPermission(p int64) bool {
	return a.Permissions&p == p
}

func (a Actor) hasRole(roleID string) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// isUnknownChannel reports whether the platform rejected a call because the channel is gone.
func isUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	// General is thrown when a 404 is returned.
	return restErr.Message.Code == discordgo.ErrCodeUnknownChannel || restErr.Message.Code == discordgo.ErrCodeGeneralError
}
