package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

// errMissingOption is returned when an interaction lacks an option its command declares.
var errMissingOption = errors.New("missing option")

func ticketCmdController(_ IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	_, name, opts := subCommand(i)
	options := optionMap(opts)

	switch name {
	case closeCmdName:
		reason := ""
		if o, ok := options[optReason]; ok {
			reason = o.StringValue()
		}
		return requestClose(reason), nil
	case addCmdName, removeCmdName:
		o, ok := options[optUser]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errMissingOption, optUser)
		}
		userID, ok := o.Value.(string)
		if !ok || userID == "" {
			return nil, fmt.Errorf("%w: %s", errMissingOption, optUser)
		}
		if name == addCmdName {
			return addMember(userID), nil
		}
		return removeMember(userID), nil
	case claimCmdName:
		return claimProcessor, nil
	case unclaimCmdName:
		return unclaimProcessor, nil
	case renameCmdName:
		o, ok := options[optName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errMissingOption, optName)
		}
		return rename(o.StringValue()), nil
	case priorityCmdName:
		o, ok := options[optLevel]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errMissingOption, optLevel)
		}
		return setPriority(o.StringValue(), false), nil
	case transcriptCmdName:
		return transcriptProcessor, nil
	case infoCmdName:
		return infoProcessor, nil
	default:
		return nil, fmt.Errorf("unknown sub command %q", name)
	}
}

// createTicketProcessor opens a ticket in the category picked on the panel.
func createTicketProcessor(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return fmt.Errorf("%w: no category selected", ticketing.ErrInvalid)
	}

	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	t, err := a.Tickets().CreateTicket(context.Background(), i.GuildID, actorOf(i), values[0])
	if err != nil {
		return err
	}
	TotalTicketEvents.WithLabelValues(ticketEventCreated).Inc()

	return followupEphemeral(a, i, fmt.Sprintf("✅ Your ticket has been created: <#%s>", t.ChannelID))
}

func requestCloseProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return requestClose("")(a, i)
}

func requestClose(reason string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		t, err := a.Tickets().RequestClose(context.Background(), i.GuildID, i.ChannelID, actorOf(i), reason)
		if err != nil {
			return err
		}

		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: closeConfirmation(t, reason, a.Tickets().ConfirmTimeout()),
		})
	}
}

// confirmCloseProcessor defers the response as the close may outlast the response deadline.
func confirmCloseProcessor(a IApp, i *discordgo.InteractionCreate) error {
	if err := deferUpdate(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	t, err := a.Tickets().ConfirmClose(context.Background(), i.GuildID, i.ChannelID, actorOf(i))
	if err != nil {
		return err
	}
	TotalTicketEvents.WithLabelValues(ticketEventClosed).Inc()

	return followupMessage(a, i, fmt.Sprintf("\U0001F512 Ticket #%s has been closed by <@%s>. This channel will be deleted in %s.",
		t.ID, actorOf(i).ID, a.Tickets().DeleteDelay()))
}

func cancelCloseProcessor(a IApp, i *discordgo.InteractionCreate) error {
	pending, err := a.Tickets().CancelClose(context.Background(), i.GuildID, i.ChannelID, actorOf(i))
	if err != nil {
		return err
	}
	if !pending {
		return respondUpdate(a, i, "This close request has already expired.")
	}
	return respondUpdate(a, i, "Ticket close cancelled.")
}

func claimProcessor(a IApp, i *discordgo.InteractionCreate) error {
	t, err := a.Tickets().Claim(context.Background(), i.GuildID, i.ChannelID, actorOf(i))
	if err != nil {
		return err
	}
	TotalTicketEvents.WithLabelValues(ticketEventClaimed).Inc()

	return respondEmbed(a, i, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("\U0001F3AB Ticket #%s has been claimed by <@%s>.", t.ID, t.ClaimedBy),
		Color:       ticketing.ColorSuccess,
	}, false)
}

func unclaimProcessor(a IApp, i *discordgo.InteractionCreate) error {
	t, err := a.Tickets().Unclaim(context.Background(), i.GuildID, i.ChannelID, actorOf(i))
	if err != nil {
		return err
	}
	TotalTicketEvents.WithLabelValues(ticketEventUnclaimed).Inc()

	return respondEmbed(a, i, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Ticket #%s is no longer claimed.", t.ID),
		Color:       ticketing.ColorInfo,
	}, false)
}

func rename(name string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		newName, err := a.Tickets().Rename(context.Background(), i.GuildID, i.ChannelID, actorOf(i), name)
		if err != nil {
			return err
		}
		TotalTicketEvents.WithLabelValues(ticketEventRenamed).Inc()

		return respondEphemeral(a, i, fmt.Sprintf("✅ Ticket renamed to `%s`.", newName))
	}
}

func priorityMenuProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: priorityMenu(),
	})
}

func prioritySelectProcessor(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return fmt.Errorf("%w: no priority selected", ticketing.ErrInvalid)
	}
	return setPriority(values[0], true)(a, i)
}

// setPriority changes the priority. From a select menu the menu is replaced by the result.
func setPriority(level string, fromMenu bool) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		t, err := a.Tickets().SetPriority(context.Background(), i.GuildID, i.ChannelID, actorOf(i), level)
		if err != nil {
			return err
		}
		TotalTicketEvents.WithLabelValues(ticketEventPriority).Inc()

		msg := fmt.Sprintf("%s Priority set to **%s**.", ticketing.PriorityEmoji(t.Priority), t.Priority)
		if fromMenu {
			return respondUpdate(a, i, msg)
		}
		return respondEphemeral(a, i, msg)
	}
}

func addUserMenuProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: addUserMenu(),
	})
}

func addUserSelectProcessor(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return fmt.Errorf("%w: no user selected", ticketing.ErrInvalid)
	}

	if _, err := a.Tickets().AddMember(context.Background(), i.GuildID, i.ChannelID, actorOf(i), values[0]); err != nil {
		return err
	}
	TotalTicketEvents.WithLabelValues(ticketEventMemberAdded).Inc()

	return respondUpdate(a, i, fmt.Sprintf("✅ <@%s> has been added to the ticket.", values[0]))
}

func addMember(userID string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		if _, err := a.Tickets().AddMember(context.Background(), i.GuildID, i.ChannelID, actorOf(i), userID); err != nil {
			return err
		}
		TotalTicketEvents.WithLabelValues(ticketEventMemberAdded).Inc()

		return respondEphemeral(a, i, fmt.Sprintf("✅ <@%s> has been added to the ticket.", userID))
	}
}

func removeMember(userID string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		if _, err := a.Tickets().RemoveMember(context.Background(), i.GuildID, i.ChannelID, actorOf(i), userID); err != nil {
			return err
		}
		TotalTicketEvents.WithLabelValues(ticketEventMemberGone).Inc()

		return respondEphemeral(a, i, fmt.Sprintf("✅ <@%s> has been removed from the ticket.", userID))
	}
}

func transcriptProcessor(a IApp, i *discordgo.InteractionCreate) error {
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	transcript, t, err := a.Tickets().Transcript(context.Background(), i.GuildID, i.ChannelID, actorOf(i))
	if err != nil {
		return err
	}

	return followupEphemeral(a, i, fmt.Sprintf("\U0001F4DC Transcript of ticket #%s", t.ID), ticketing.TranscriptFile(t, transcript))
}

func infoProcessor(a IApp, i *discordgo.InteractionCreate) error {
	t, err := a.Tickets().Info(context.Background(), i.GuildID, i.ChannelID)
	if err != nil {
		return err
	}
	return respondEmbed(a, i, ticketInfoEmbed(t), true)
}
