package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

func setupCmdController(_ IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	group, name, opts := subCommand(i)
	options := optionMap(opts)

	if group == categoriesCmdName {
		switch name {
		case addCmdName:
			return addCategory(
				stringOption(options, optName),
				stringOption(options, optEmoji),
				stringOption(options, optDescription),
			), nil
		case removeCmdName:
			return removeCategory(stringOption(options, optCategoryID)), nil
		case listCmdName:
			return listCategories, nil
		default:
			return nil, fmt.Errorf("unknown categories sub command %q", name)
		}
	}

	switch name {
	case panelCmdName:
		return postPanel(idOption(options, optChannel)), nil
	case configCmdName:
		return configure(configUpdate(options)), nil
	default:
		return nil, fmt.Errorf("unknown sub command %q", name)
	}
}

// configUpdate builds the update from the options that were given.
func configUpdate(options map[string]*discordgo.ApplicationCommandInteractionDataOption) ticketing.ConfigUpdate {
	var u ticketing.ConfigUpdate

	if o, ok := options[optEnabled]; ok {
		enabled := o.BoolValue()
		u.Enabled = &enabled
	}
	u.AddStaffRoleID = idOption(options, optStaffRole)
	u.RemoveStaffRoleID = idOption(options, optRemoveRole)
	if id := idOption(options, optLogChannel); id != "" {
		u.LogChannelID = &id
	}
	if id := idOption(options, optParent); id != "" {
		u.ParentChannelID = &id
	}
	if o, ok := options[optMaxTickets]; ok {
		limit := int(o.IntValue())
		u.MaxTicketsPerUser = &limit
	}

	return u
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := options[name]; ok {
		return o.StringValue()
	}
	return ""
}

// idOption returns the ID of a user, role or channel option.
func idOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := options[name]; ok {
		if id, ok := o.Value.(string); ok {
			return id
		}
	}
	return ""
}

func postPanel(channelID string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		if channelID == "" {
			channelID = i.ChannelID
		}

		if _, err := a.Tickets().PostPanel(context.Background(), i.GuildID, actorOf(i), channelID); err != nil {
			return err
		}
		return respondEphemeral(a, i, fmt.Sprintf("✅ The ticket panel has been posted in <#%s> and ticketing is enabled.", channelID))
	}
}

func configure(u ticketing.ConfigUpdate) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		g, err := a.Tickets().Configure(context.Background(), i.GuildID, actorOf(i), u)
		if err != nil {
			return err
		}
		return respondEmbed(a, i, configEmbed(g), true)
	}
}

func addCategory(name, emoji, description string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		cat, err := a.Tickets().AddCategory(context.Background(), i.GuildID, actorOf(i), name, emoji, description)
		if err != nil {
			return err
		}
		return respondEphemeral(a, i, fmt.Sprintf("✅ Category %s **%s** added with ID `%s`. Post the panel again to show it.", cat.Emoji, cat.Name, cat.ID))
	}
}

func removeCategory(id string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		cat, err := a.Tickets().RemoveCategory(context.Background(), i.GuildID, actorOf(i), id)
		if err != nil {
			return err
		}
		return respondEphemeral(a, i, fmt.Sprintf("✅ Category **%s** removed. Post the panel again to hide it.", cat.Name))
	}
}

func listCategories(a IApp, i *discordgo.InteractionCreate) error {
	cats, err := a.Tickets().ListCategories(context.Background(), i.GuildID)
	if err != nil {
		return err
	}
	return respondEmbed(a, i, categoriesEmbed(cats), true)
}
