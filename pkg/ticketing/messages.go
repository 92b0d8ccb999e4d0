package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

const (
	// CategorySelectID is the ID of the category selector on the panel.
	CategorySelectID = "ticket_category_select"

	// CloseButtonID is the ID of the close button.
	CloseButtonID = "ticket_close"

	// ClaimButtonID is the ID of the claim button.
	ClaimButtonID = "ticket_claim"

	// TranscriptButtonID is the ID of the transcript button.
	TranscriptButtonID = "ticket_transcript"

	// PriorityButtonID is the ID of the priority button.
	PriorityButtonID = "ticket_priority"

	// AddUserButtonID is the ID of the add user button.
	AddUserButtonID = "ticket_add_user"

	// InfoButtonID is the ID of the info button.
	InfoButtonID = "ticket_info"

	// CloseConfirmButtonID is the ID of the button confirming a close.
	CloseConfirmButtonID = "ticket_close_confirm"

	// CloseCancelButtonID is the ID of the button cancelling a close.
	CloseCancelButtonID = "ticket_close_cancel"

	// PrioritySelectID is the ID of the priority selector.
	PrioritySelectID = "ticket_priority_select"

	// AddUserSelectID is the ID of the user selector.
	AddUserSelectID = "ticket_add_user_select"
)

const (
	// ColorInfo is the embed color for informational messages.
	ColorInfo = 0x5865F2

	// ColorSuccess is the embed color for created tickets.
	ColorSuccess = 0x57F287

	// ColorDanger is the embed color for closed tickets.
	ColorDanger = 0xED4245
)

// PriorityEmoji returns the emoji shown next to a priority.
func PriorityEmoji(p entities.Priority) string {
	switch p {
	case entities.PriorityLow:
		return "\U0001F7E2"
	case entities.PriorityHigh:
		return "\U0001F7E0"
	case entities.PriorityCritical:
		return "\U0001F534"
	default:
		return "\U0001F535"
	}
}

func panelMessage(cfg *entities.TicketingConfig) *discordgo.MessageSend {
	var desc strings.Builder
	desc.WriteString("Select a category below to open a ticket.\n\n")

	options := make([]discordgo.SelectMenuOption, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		desc.WriteString(fmt.Sprintf("%s **%s**: %s\n", c.Emoji, c.Name, c.Description))
		options = append(options, discordgo.SelectMenuOption{
			Label:       c.Name,
			Value:       c.ID,
			Description: c.Description,
			Emoji:       discordgo.ComponentEmoji{Name: c.Emoji},
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "\U0001F3AB Support Tickets",
				Description: desc.String(),
				Color:       ColorInfo,
				Footer:      &discordgo.MessageEmbedFooter{Text: "Pick a category to contact the staff"},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    CategorySelectID,
						Placeholder: "Select a category...",
						Options:     options,
					},
				},
			},
		},
	}
}

func welcomeMessage(t *entities.Ticket, cfg *entities.TicketingConfig) *discordgo.MessageSend {
	content := fmt.Sprintf("<@%s>", t.UserID)
	for _, roleID := range cfg.StaffRoleIDs {
		content += fmt.Sprintf(" <@&%s>", roleID)
	}

	return &discordgo.MessageSend{
		Content: content,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: fmt.Sprintf("Ticket #%s", t.ID),
				Description: fmt.Sprintf("Welcome <@%s>!\n\n**Category:** %s\n\nPlease describe your issue and a staff member will assist you shortly.",
					t.UserID, t.CategoryName),
				Color:     ColorSuccess,
				Timestamp: t.CreatedAt.Time().Format(time.RFC3339),
			},
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{t.UserID},
			Roles: cfg.StaffRoleIDs,
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "\U0001F510 Close", Style: discordgo.DangerButton, CustomID: CloseButtonID},
					discordgo.Button{Label: "\U0001F3AB Claim", Style: discordgo.PrimaryButton, CustomID: ClaimButtonID},
					discordgo.Button{Label: "\U0001F4DC Transcript", Style: discordgo.SecondaryButton, CustomID: TranscriptButtonID},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "⚡ Priority", Style: discordgo.SecondaryButton, CustomID: PriorityButtonID},
					discordgo.Button{Label: "➕ Add User", Style: discordgo.SecondaryButton, CustomID: AddUserButtonID},
					discordgo.Button{Label: "ℹ Info", Style: discordgo.SecondaryButton, CustomID: InfoButtonID},
				},
			},
		},
	}
}

func createdLogMessage(t *entities.Ticket) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: fmt.Sprintf("Ticket #%s Opened", t.ID),
				Color: ColorSuccess,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Opened By", Value: fmt.Sprintf("<@%s>", t.UserID), Inline: true},
					{Name: "Category", Value: t.CategoryName, Inline: true},
					{Name: "Channel", Value: fmt.Sprintf("<#%s>", t.ChannelID), Inline: true},
				},
				Timestamp: t.CreatedAt.Time().Format(time.RFC3339),
			},
		},
	}
}

func closedLogMessage(t *entities.Ticket) *discordgo.MessageSend {
	reason := t.CloseReason
	if reason == "" {
		reason = "No reason provided"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Opened By", Value: fmt.Sprintf("<@%s>", t.UserID), Inline: true},
		{Name: "Closed By", Value: fmt.Sprintf("<@%s>", t.ClosedBy), Inline: true},
		{Name: "Category", Value: t.CategoryName, Inline: true},
		{Name: "Priority", Value: string(t.Priority), Inline: true},
		{Name: "Reason", Value: reason},
	}
	if t.ClaimedBy != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Claimed By", Value: fmt.Sprintf("<@%s>", t.ClaimedBy), Inline: true})
	}
	if t.TranscriptURL != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Archived Transcript", Value: t.TranscriptURL})
	}

	closedAt := time.Now().UTC()
	if t.ClosedAt != nil {
		closedAt = t.ClosedAt.Time()
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:     fmt.Sprintf("Ticket #%s Closed", t.ID),
				Color:     ColorDanger,
				Fields:    fields,
				Timestamp: closedAt.Format(time.RFC3339),
			},
		},
		Files: []*discordgo.File{
			TranscriptFile(t, t.Transcript),
		},
	}
}

// TranscriptFile wraps a transcript as a message attachment.
func TranscriptFile(t *entities.Ticket, transcript string) *discordgo.File {
	return &discordgo.File{
		Name:        fmt.Sprintf("ticket-%s-transcript.txt", t.ID),
		ContentType: "text/plain",
		Reader:      strings.NewReader(transcript),
	}
}
