package main

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "guild",
			ChannelID: "channel",
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func TestSubCommand(t *testing.T) {
	group, name, opts := subCommand(commandInteraction(ticketCmdName, &discordgo.ApplicationCommandInteractionDataOption{
		Name: closeCmdName,
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: optReason, Type: discordgo.ApplicationCommandOptionString, Value: "done"},
		},
	}))
	require.Empty(t, group)
	require.Equal(t, closeCmdName, name)
	require.Equal(t, "done", optionMap(opts)[optReason].StringValue())

	group, name, opts = subCommand(commandInteraction(setupCmdName, &discordgo.ApplicationCommandInteractionDataOption{
		Name: categoriesCmdName,
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: removeCmdName, Type: discordgo.ApplicationCommandOptionSubCommand, Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: optCategoryID, Type: discordgo.ApplicationCommandOptionString, Value: "support"},
			}},
		},
	}))
	require.Equal(t, categoriesCmdName, group)
	require.Equal(t, removeCmdName, name)
	require.Equal(t, "support", stringOption(optionMap(opts), optCategoryID))
}

func TestConfigUpdate(t *testing.T) {
	u := configUpdate(optionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: optEnabled, Type: discordgo.ApplicationCommandOptionBoolean, Value: false},
		{Name: optStaffRole, Type: discordgo.ApplicationCommandOptionRole, Value: "role"},
		{Name: optLogChannel, Type: discordgo.ApplicationCommandOptionChannel, Value: "log"},
		{Name: optMaxTickets, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2)},
	}))

	require.NotNil(t, u.Enabled)
	require.False(t, *u.Enabled)
	require.Equal(t, "role", u.AddStaffRoleID)
	require.Empty(t, u.RemoveStaffRoleID)
	require.Equal(t, "log", *u.LogChannelID)
	require.Nil(t, u.ParentChannelID)
	require.Equal(t, 2, *u.MaxTicketsPerUser)
}

func TestCommandControllers(t *testing.T) {
	tests := []struct {
		name       string
		controller commandController
		i          *discordgo.InteractionCreate
		wantErr    bool
	}{
		{
			name:       "Ticket info",
			controller: ticketCmdController,
			i: commandInteraction(ticketCmdName, &discordgo.ApplicationCommandInteractionDataOption{
				Name: infoCmdName, Type: discordgo.ApplicationCommandOptionSubCommand,
			}),
		},
		{
			name:       "Ticket add without user",
			controller: ticketCmdController,
			i: commandInteraction(ticketCmdName, &discordgo.ApplicationCommandInteractionDataOption{
				Name: addCmdName, Type: discordgo.ApplicationCommandOptionSubCommand,
			}),
			wantErr: true,
		},
		{
			name:       "Ticket unknown",
			controller: ticketCmdController,
			i: commandInteraction(ticketCmdName, &discordgo.ApplicationCommandInteractionDataOption{
				Name: "reopen", Type: discordgo.ApplicationCommandOptionSubCommand,
			}),
			wantErr: true,
		},
		{
			name:       "Setup panel",
			controller: setupCmdController,
			i: commandInteraction(setupCmdName, &discordgo.ApplicationCommandInteractionDataOption{
				Name: panelCmdName, Type: discordgo.ApplicationCommandOptionSubCommand,
			}),
		},
		{
			name:       "Setup categories list",
			controller: setupCmdController,
			i: commandInteraction(setupCmdName, &discordgo.ApplicationCommandInteractionDataOption{
				Name: categoriesCmdName, Type: discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: listCmdName, Type: discordgo.ApplicationCommandOptionSubCommand},
				},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.controller(nil, tt.i)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p)
		})
	}
}

func TestCommandDefinitions(t *testing.T) {
	require.Equal(t, []*discordgo.ApplicationCommand{ticketCmd, setupCmd}, commands())
	require.Equal(t, int64(discordgo.PermissionManageServer), *setupCmd.DefaultMemberPermissions)
	require.Len(t, priorityChoices(), 4)
}
