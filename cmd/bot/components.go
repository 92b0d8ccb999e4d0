package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

func closeConfirmation(t *entities.Ticket, reason string, timeout time.Duration) *discordgo.InteractionResponseData {
	desc := fmt.Sprintf("Are you sure you want to close ticket #%s? This expires in %s.", t.ID, timeout)
	if reason != "" {
		desc += fmt.Sprintf("\n\n**Reason:** %s", reason)
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "\U0001F510 Close Ticket",
				Description: desc,
				Color:       ticketing.ColorDanger,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Confirm", Style: discordgo.DangerButton, CustomID: ticketing.CloseConfirmButtonID},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: ticketing.CloseCancelButtonID},
				},
			},
		},
	}
}

func priorityMenu() *discordgo.InteractionResponseData {
	options := make([]discordgo.SelectMenuOption, 0, len(entities.Priorities))
	for _, p := range entities.Priorities {
		options = append(options, discordgo.SelectMenuOption{
			Label: strings.ToUpper(string(p[:1])) + string(p[1:]),
			Value: string(p),
			Emoji: discordgo.ComponentEmoji{Name: ticketing.PriorityEmoji(p)},
		})
	}

	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    ticketing.PrioritySelectID,
						Placeholder: "Select a priority...",
						Options:     options,
					},
				},
			},
		},
	}
}

func addUserMenu() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.UserSelectMenu,
						CustomID:    ticketing.AddUserSelectID,
						Placeholder: "Select a user to add...",
					},
				},
			},
		},
	}
}

func ticketInfoEmbed(t *entities.Ticket) *discordgo.MessageEmbed {
	claimed := "Unclaimed"
	if t.IsClaimed() {
		claimed = fmt.Sprintf("<@%s>", t.ClaimedBy)
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ticket #%s", t.ID),
		Color: ticketing.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Opened By", Value: fmt.Sprintf("<@%s>", t.UserID), Inline: true},
			{Name: "Category", Value: t.CategoryName, Inline: true},
			{Name: "Priority", Value: fmt.Sprintf("%s %s", ticketing.PriorityEmoji(t.Priority), t.Priority), Inline: true},
			{Name: "Claimed By", Value: claimed, Inline: true},
			{Name: "Opened", Value: fmt.Sprintf("<t:%d:R>", t.CreatedAt.Time().Unix()), Inline: true},
		},
	}
}

func categoriesEmbed(cats []entities.Category) *discordgo.MessageEmbed {
	if len(cats) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Ticket Categories",
			Description: fmt.Sprintf("No categories yet. Add one with `/%s %s %s`.", setupCmdName, categoriesCmdName, addCmdName),
			Color:       ticketing.ColorInfo,
		}
	}

	var sb strings.Builder
	for _, c := range cats {
		sb.WriteString(fmt.Sprintf("%s **%s** (`%s`): %s\n", c.Emoji, c.Name, c.ID, c.Description))
	}

	return &discordgo.MessageEmbed{
		Title:       "Ticket Categories",
		Description: sb.String(),
		Color:       ticketing.ColorInfo,
	}
}

func configEmbed(g *entities.Guild) *discordgo.MessageEmbed {
	cfg := g.Ticketing

	roles := "None"
	if len(cfg.StaffRoleIDs) > 0 {
		mentions := make([]string, 0, len(cfg.StaffRoleIDs))
		for _, id := range cfg.StaffRoleIDs {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", id))
		}
		roles = strings.Join(mentions, " ")
	}

	channel := func(id string) string {
		if id == "" {
			return "Not set"
		}
		return fmt.Sprintf("<#%s>", id)
	}

	return &discordgo.MessageEmbed{
		Title: "Ticket Configuration",
		Color: ticketing.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Enabled", Value: fmt.Sprintf("%t", cfg.Enabled), Inline: true},
			{Name: "Max Tickets Per User", Value: fmt.Sprintf("%d", cfg.Limit()), Inline: true},
			{Name: "Categories", Value: fmt.Sprintf("%d", len(cfg.Categories)), Inline: true},
			{Name: "Staff Roles", Value: roles},
			{Name: "Log Channel", Value: channel(cfg.LogChannelID), Inline: true},
			{Name: "Ticket Category", Value: channel(cfg.ParentChannelID), Inline: true},
			{Name: "Panel", Value: channel(cfg.PanelChannelID), Inline: true},
		},
	}
}
