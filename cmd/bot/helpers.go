package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

const (
	// msgErrProcessing is shown when an interaction fails for a reason the user cannot fix.
	msgErrProcessing = "❌ Something went wrong while processing your request, please try again later."

	// msgGuildOnly is shown when the bot is used outside of a server.
	msgGuildOnly = "❌ This bot can only be used in a server."
)

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEmbed(a IApp, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// respondUpdate replaces the message the component was attached to.
func respondUpdate(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
}

// deferEphemeral acknowledges the interaction so the work may take longer than the response deadline.
// The result must be sent with followupEphemeral.
func deferEphemeral(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// deferUpdate acknowledges a component interaction without changing its message.
// The result must be sent with followupMessage.
func deferUpdate(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func followupMessage(a IApp, i *discordgo.InteractionCreate, content string) error {
	_, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	})
	return err
}

func followupEphemeral(a IApp, i *discordgo.InteractionCreate, content string, files ...*discordgo.File) error {
	_, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Files:   files,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// respondError tells the user why the interaction failed. If the interaction was already
// acknowledged the message is sent as a followup.
func respondError(a IApp, i *discordgo.InteractionCreate, err error) error {
	msg := userMessage(err)
	if respErr := respondEphemeral(a, i, msg); respErr != nil {
		if followErr := followupEphemeral(a, i, msg); followErr != nil {
			return fmt.Errorf("error responding to interaction: %w", errors.Join(respErr, followErr))
		}
	}
	return nil
}

// userMessage turns a controller error into a message that can be shown to the user.
func userMessage(err error) string {
	var limitErr *ticketing.LimitReachedError
	if errors.As(err, &limitErr) {
		channels := make([]string, 0, len(limitErr.Tickets))
		for _, t := range limitErr.Tickets {
			channels = append(channels, fmt.Sprintf("<#%s>", t.ChannelID))
		}
		return fmt.Sprintf("❌ You already have %d open ticket(s), the maximum is %d: %s",
			len(limitErr.Tickets), limitErr.Limit, strings.Join(channels, ", "))
	}

	switch {
	case errors.Is(err, ticketing.ErrDisabled):
		return "❌ Ticketing is not enabled in this server."
	}

	for _, sentinel := range []error{
		ticketing.ErrExternalCall,
		ticketing.ErrForbidden,
		ticketing.ErrNotFound,
		ticketing.ErrInvalid,
		ticketing.ErrRateLimited,
	} {
		if errors.Is(err, sentinel) {
			return "❌ " + capitalize(strings.TrimPrefix(err.Error(), sentinel.Error()+": "))
		}
	}

	return msgErrProcessing
}

// errorKind labels an error for the interaction error metric.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ticketing.ErrLimitReached):
		return "limit_reached"
	case errors.Is(err, ticketing.ErrForbidden):
		return "forbidden"
	case errors.Is(err, ticketing.ErrNotFound):
		return "not_found"
	case errors.Is(err, ticketing.ErrInvalid):
		return "invalid"
	case errors.Is(err, ticketing.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ticketing.ErrDisabled):
		return "disabled"
	case errors.Is(err, ticketing.ErrExternalCall):
		return "external"
	default:
		return "internal"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// actorOf returns the member who triggered the interaction.
func actorOf(i *discordgo.InteractionCreate) ticketing.Actor {
	return ticketing.ActorFromMember(i.Member)
}
