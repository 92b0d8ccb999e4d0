package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

const (
	// ticketCmdName is the command for working inside a ticket.
	ticketCmdName = "ticket"

	closeCmdName      = "close"
	addCmdName        = "add"
	removeCmdName     = "remove"
	claimCmdName      = "claim"
	unclaimCmdName    = "unclaim"
	renameCmdName     = "rename"
	priorityCmdName   = "priority"
	transcriptCmdName = "transcript"
	infoCmdName       = "info"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "ticket-setup"

	panelCmdName      = "panel"
	configCmdName     = "config"
	categoriesCmdName = "categories"
	listCmdName       = "list"
)

const (
	optReason      = "reason"
	optUser        = "user"
	optName        = "name"
	optLevel       = "level"
	optChannel     = "channel"
	optEnabled     = "enabled"
	optStaffRole   = "staff_role"
	optRemoveRole  = "remove_staff_role"
	optLogChannel  = "log_channel"
	optParent      = "ticket_category"
	optMaxTickets  = "max_tickets"
	optEmoji       = "emoji"
	optDescription = "description"
	optCategoryID  = "id"
)

// setupPermissions is required to see the setup command.
var setupPermissions int64 = discordgo.PermissionManageServer

var (
	// ticketCmd is the command for controlling tickets.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:         ticketCmdName,
		Type:         discordgo.ChatApplicationCommand,
		Description:  "Manage the ticket of this channel.",
		DMPermission: new(bool),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        closeCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Close this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optReason,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "Why the ticket is being closed.",
						MaxLength:   1000,
					},
				},
			},
			{
				Name:        addCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Add a user to this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optUser,
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The user to add.",
						Required:    true,
					},
				},
			},
			{
				Name:        removeCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Remove a user from this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optUser,
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The user to remove.",
						Required:    true,
					},
				},
			},
			{
				Name:        claimCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Claim this ticket.",
			},
			{
				Name:        unclaimCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Release your claim on this ticket.",
			},
			{
				Name:        renameCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Rename this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The new name of the ticket.",
						Required:    true,
						MaxLength:   90,
					},
				},
			},
			{
				Name:        priorityCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the priority of this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optLevel,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The new priority.",
						Required:    true,
						Choices:     priorityChoices(),
					},
				},
			},
			{
				Name:        transcriptCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Export the messages of this ticket.",
			},
			{
				Name:        infoCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Show the details of this ticket.",
			},
		},
	}

	// setupCmd is the command for all configuration commands.
	setupCmd = &discordgo.ApplicationCommand{
		Name:                     setupCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Configure the ticket system.",
		DefaultMemberPermissions: &setupPermissions,
		DMPermission:             new(bool),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        panelCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Post the ticket panel and enable ticketing.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         optChannel,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The channel to post the panel in. Defaults to this channel.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Name:        configCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Show or change the ticket configuration.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        optEnabled,
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Description: "Whether users can open tickets.",
					},
					{
						Name:        optStaffRole,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "A role that handles tickets.",
					},
					{
						Name:        optRemoveRole,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "A role that should no longer handle tickets.",
					},
					{
						Name:         optLogChannel,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The channel ticket events are logged to.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
					{
						Name:         optParent,
						Type:         discordgo.ApplicationCommandOptionChannel,
						Description:  "The category ticket channels are created in.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
					},
					{
						Name:        optMaxTickets,
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "How many open tickets a user may have.",
						MinValue:    func() *float64 { v := float64(entities.MinTicketsPerUser); return &v }(),
						MaxValue:    float64(entities.MaxTicketsPerUser),
					},
				},
			},
			{
				Name:        categoriesCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Description: "Manage the ticket categories.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        addCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Add a category.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:        optName,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "The name of the category.",
								Required:    true,
								MaxLength:   50,
							},
							{
								Name:        optEmoji,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "The emoji shown next to the category.",
								Required:    true,
							},
							{
								Name:        optDescription,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "The description shown on the panel.",
								Required:    true,
								MaxLength:   100,
							},
						},
					},
					{
						Name:        removeCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Remove a category.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:        optCategoryID,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "The ID or name of the category.",
								Required:    true,
							},
						},
					},
					{
						Name:        listCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "List the categories.",
					},
				},
			},
		},
	}
)

// commands returns the commands registered in every guild.
func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{ticketCmd, setupCmd}
}

func priorityChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.Priorities))
	for _, p := range entities.Priorities {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(p),
			Value: string(p),
		})
	}
	return choices
}

// subCommand returns the sub command of the interaction and its options, descending into a sub
// command group if there is one.
func subCommand(i *discordgo.InteractionCreate) (group, name string, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", "", nil
	}

	opt := data.Options[0]
	if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
		if len(opt.Options) == 0 {
			return opt.Name, "", nil
		}
		return opt.Name, opt.Options[0].Name, opt.Options[0].Options
	}
	return "", opt.Name, opt.Options
}

// optionMap indexes command options by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}
