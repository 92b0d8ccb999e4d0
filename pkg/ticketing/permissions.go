package ticketing

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

const (
	// memberAllow is granted to everyone taking part in a ticket.
	memberAllow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionAttachFiles |
		discordgo.PermissionEmbedLinks

	// staffAllow is granted to staff and admin roles.
	staffAllow = memberAllow | discordgo.PermissionManageMessages

	// botAllow is granted to the bot so it can manage the channel for its whole lifetime.
	botAllow = staffAllow | discordgo.PermissionManageChannels
)

// isStaff reports whether the actor handles tickets in the guild.
func isStaff(cfg *entities.TicketingConfig, a Actor) bool {
	if a.hasPermission(discordgo.PermissionAdministrator) || a.hasPermission(discordgo.PermissionManageChannels) {
		return true
	}
	for _, roleID := range cfg.StaffRoleIDs {
		if a.hasRole(roleID) {
			return true
		}
	}
	return false
}

// isAdmin reports whether the actor may change the ticketing configuration.
func isAdmin(a Actor) bool {
	return a.hasPermission(discordgo.PermissionAdministrator) || a.hasPermission(discordgo.PermissionManageServer)
}

// ticketOverwrites builds the permission overwrites of a new ticket channel.
func ticketOverwrites(guildID, botID, requesterID string, staffRoles []string, roles []*discordgo.Role) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    requesterID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAllow,
		},
	}

	seen := map[string]bool{guildID: true}
	for _, roleID := range staffRoles {
		if roleID == "" || seen[roleID] {
			continue
		}
		seen[roleID] = true
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffAllow,
		})
	}

	for _, r := range roles {
		if r == nil || seen[r.ID] || r.Permissions&discordgo.PermissionAdministrator == 0 {
			continue
		}
		seen[r.ID] = true
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    r.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffAllow,
		})
	}

	if botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botAllow,
		})
	}

	return overwrites
}
