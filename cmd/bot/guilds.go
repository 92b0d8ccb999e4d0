package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"golang.org/x/exp/slog"
)

// guildJoinedHandler registers the commands in every guild the bot is in. Discord sends a guild
// create for each guild on connect as well as when the bot is added to a new one.
func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		l := a.Log().With(slog.String(logging.KeyGuildID, g.ID))
		l.Info("Joined guild", slog.String("name", g.Name))

		// Increment the total number of guilds.
		TotalDiscordGuilds.Inc()

		if _, err := s.ApplicationCommandBulkOverwrite(ApplicationId, g.ID, commands()); err != nil {
			l.Error("Error registering commands", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// An outage, not a removal.
			a.Log().Warn("Guild unavailable", slog.String(logging.KeyGuildID, g.ID))
			return
		}

		a.Log().Info("Left guild", slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		TotalDiscordGuilds.Dec()
	}
}
