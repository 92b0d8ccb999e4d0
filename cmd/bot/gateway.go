package main

import (
	"github.com/Jacobbrewer1/discordgo"
)

// sessionGateway runs the ticket controller's platform calls on a Discord session.
type sessionGateway struct {
	s *discordgo.Session
}

func newSessionGateway(s *discordgo.Session) *sessionGateway {
	return &sessionGateway{s: s}
}

func (g *sessionGateway) BotUserID() string {
	if g.s.State == nil || g.s.State.User == nil {
		return ""
	}
	return g.s.State.User.ID
}

func (g *sessionGateway) Channel(channelID string) (*discordgo.Channel, error) {
	return g.s.Channel(channelID)
}

func (g *sessionGateway) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return g.s.GuildRoles(guildID)
}

func (g *sessionGateway) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return g.s.GuildChannelCreateComplex(guildID, data)
}

func (g *sessionGateway) RenameChannel(channelID, name string) error {
	_, err := g.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		Name: name,
	})
	return err
}

func (g *sessionGateway) SetPermission(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error {
	return g.s.ChannelPermissionSet(channelID, targetID, targetType, allow, deny)
}

func (g *sessionGateway) DeletePermission(channelID, targetID string) error {
	return g.s.ChannelPermissionDelete(channelID, targetID)
}

func (g *sessionGateway) ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	return g.s.ChannelMessages(channelID, limit, "", "", "")
}

func (g *sessionGateway) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return g.s.ChannelMessageSendComplex(channelID, data)
}

func (g *sessionGateway) PinMessage(channelID, messageID string) error {
	return g.s.ChannelMessagePin(channelID, messageID)
}

func (g *sessionGateway) DeleteChannel(channelID string) error {
	_, err := g.s.ChannelDelete(channelID)
	return err
}
