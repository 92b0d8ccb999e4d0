package ticketing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"golang.org/x/exp/slog"
)

// CreateTicket opens a ticket of the category for the actor.
func (c *Controller) CreateTicket(ctx context.Context, guildID string, actor Actor, categoryID string) (*entities.Ticket, error) {
	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	cfg := &g.Ticketing

	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	cat, ok := cfg.Category(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrNotFound, categoryID)
	}

	userTickets, err := c.tickets.ListUserTickets(ctx, guildID, actor.ID)
	if err != nil {
		return nil, external("listing open tickets", err)
	}

	open := make([]*entities.Ticket, 0, len(userTickets))
	for _, t := range userTickets {
		if t.Status == entities.StatusOpen && t.ParentChannelID == cfg.ParentChannelID {
			open = append(open, t)
		}
	}
	if len(open) >= cfg.Limit() {
		return nil, &LimitReachedError{Limit: cfg.Limit(), Tickets: open}
	}

	refund, ok := c.limiter.Reserve(guildID, actor.ID, c.now())
	if !ok {
		return nil, fmt.Errorf("%w: please wait before opening another ticket", ErrRateLimited)
	}
	opened := false
	defer func() {
		if !opened {
			refund()
		}
	}()

	parentID, err := c.ensureParent(ctx, g)
	if err != nil {
		return nil, err
	}

	id, err := c.tickets.NextTicketID(ctx, guildID)
	if err != nil {
		return nil, external("allocating ticket id", err)
	}

	t := &entities.Ticket{
		ID:              id,
		GuildID:         guildID,
		ParentChannelID: parentID,
		UserID:          actor.ID,
		Username:        actor.Username,
		CategoryID:      cat.ID,
		CategoryName:    cat.Name,
		Priority:        entities.PriorityNormal,
		Status:          entities.StatusOpen,
		CreatedAt:       custom.Datetime(c.now()),
	}

	roles, err := c.gw.GuildRoles(guildID)
	if err != nil {
		// Admin roles bypass overwrites anyway, the channel is still usable without them.
		c.l.Warn("Error listing guild roles, admin roles will not be added to the ticket",
			slog.String(logging.KeyGuildID, guildID),
			slog.String(logging.KeyError, err.Error()))
	}

	ch, err := c.gw.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name:                 t.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket opened by %s", cat.Name, actor.Username),
		ParentID:             parentID,
		PermissionOverwrites: ticketOverwrites(guildID, c.gw.BotUserID(), actor.ID, cfg.StaffRoleIDs, roles),
	})
	if err != nil {
		return nil, external("creating ticket channel", err)
	}
	t.ChannelID = ch.ID

	if err := c.tickets.SaveTicket(ctx, t); err != nil {
		// Without a record the channel is unreachable for every ticket operation.
		if delErr := c.gw.DeleteChannel(ch.ID); delErr != nil {
			c.ticketLogger(t).Error("Error deleting orphaned ticket channel", slog.String(logging.KeyError, delErr.Error()))
		}
		return nil, external("saving ticket", err)
	}
	opened = true

	l := c.ticketLogger(t)
	l.Info("Ticket created", slog.String(logging.KeyUserID, actor.ID), slog.String("category", cat.ID))

	if msg, err := c.gw.SendMessage(ch.ID, welcomeMessage(t, cfg)); err != nil {
		l.Error("Error sending welcome message", slog.String(logging.KeyError, err.Error()))
	} else {
		if err := c.gw.PinMessage(ch.ID, msg.ID); err != nil {
			l.Error("Error pinning welcome message", slog.String(logging.KeyError, err.Error()))
		}

		t.WelcomeMessageID = msg.ID
		if err := c.tickets.SaveTicket(ctx, t); err != nil {
			l.Error("Error saving welcome message ID", slog.String(logging.KeyError, err.Error()))
		}
	}

	c.notify(cfg, createdLogMessage(t), l)

	return t, nil
}

// ensureParent returns the category channel tickets are created under, creating it when it is missing.
func (c *Controller) ensureParent(ctx context.Context, g *entities.Guild) (string, error) {
	cfg := &g.Ticketing
	if cfg.ParentChannelID != "" {
		_, err := c.gw.Channel(cfg.ParentChannelID)
		if err == nil {
			return cfg.ParentChannelID, nil
		} else if !isUnknownChannel(err) {
			return "", external("getting ticket category", err)
		}
		c.l.Warn("Ticket category does not exist, creating it now", slog.String(logging.KeyGuildID, g.ID))
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   g.ID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
	}
	if botID := c.gw.BotUserID(); botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botAllow,
		})
	}

	parent, err := c.gw.CreateChannel(g.ID, discordgo.GuildChannelCreateData{
		Name:                 parentChannelName,
		Type:                 discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", external("creating ticket category", err)
	}

	cfg.ParentChannelID = parent.ID
	if err := c.saveGuild(ctx, g); err != nil {
		return "", err
	}
	return parent.ID, nil
}

// notify posts to the log channel of the guild. Failures are logged only.
func (c *Controller) notify(cfg *entities.TicketingConfig, msg *discordgo.MessageSend, l *slog.Logger) {
	if cfg.LogChannelID == "" {
		return
	}
	if _, err := c.gw.SendMessage(cfg.LogChannelID, msg); err != nil {
		l.Error("Error sending to log channel", slog.String(logging.KeyError, err.Error()))
	}
}

// Claim assigns the ticket to the actor and appends their name to the channel.
func (c *Controller) Claim(ctx context.Context, guildID, channelID string, actor Actor) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}
	t := tc.ticket

	if !isStaff(&tc.guild.Ticketing, actor) {
		return nil, fmt.Errorf("%w: only staff can claim tickets", ErrForbidden)
	}

	if t.IsClaimed() {
		return nil, fmt.Errorf("%w: ticket is already claimed by <@%s>", ErrInvalid, t.ClaimedBy)
	}

	ch, err := c.gw.Channel(t.ChannelID)
	if err != nil {
		return nil, external("getting ticket channel", err)
	}

	suffix := claimSuffix(actor.Username)
	if err := c.gw.RenameChannel(t.ChannelID, claimedName(ch.Name, suffix)); err != nil {
		return nil, external("renaming ticket channel", err)
	}

	t.ClaimedBy = actor.ID
	t.ClaimedName = suffix
	if err := c.tickets.SaveTicket(ctx, t); err != nil {
		return nil, external("saving ticket", err)
	}

	c.ticketLogger(t).Info("Ticket claimed", slog.String(logging.KeyUserID, actor.ID))
	return t, nil
}

// Unclaim releases the ticket and restores the channel name from before the claim.
func (c *Controller) Unclaim(ctx context.Context, guildID, channelID string, actor Actor) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}
	t := tc.ticket

	if !isStaff(&tc.guild.Ticketing, actor) && actor.ID != t.ClaimedBy {
		return nil, fmt.Errorf("%w: only staff can unclaim tickets", ErrForbidden)
	}

	if !t.IsClaimed() {
		return nil, fmt.Errorf("%w: ticket is not claimed", ErrInvalid)
	}

	ch, err := c.gw.Channel(t.ChannelID)
	if err != nil {
		return nil, external("getting ticket channel", err)
	}

	if err := c.gw.RenameChannel(t.ChannelID, unclaimedName(ch.Name, t.ClaimedName)); err != nil {
		return nil, external("renaming ticket channel", err)
	}

	t.ClaimedBy = ""
	t.ClaimedName = ""
	if err := c.tickets.SaveTicket(ctx, t); err != nil {
		return nil, external("saving ticket", err)
	}

	c.ticketLogger(t).Info("Ticket unclaimed", slog.String(logging.KeyUserID, actor.ID))
	return t, nil
}

// RequestClose starts closing the ticket. Nothing changes until ConfirmClose is called.
func (c *Controller) RequestClose(ctx context.Context, guildID, channelID string, actor Actor, reason string) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}

	if !canClose(tc, actor) {
		return nil, fmt.Errorf("%w: only the ticket creator or staff can close this ticket", ErrForbidden)
	}

	c.pending.Put(channelID, pendingClose{
		RequestedBy: actor.ID,
		Reason:      strings.TrimSpace(reason),
		Expires:     c.now().Add(c.confirmTimeout),
	})
	return tc.ticket, nil
}

// CancelClose drops a pending close request. It reports whether a request was pending.
func (c *Controller) CancelClose(ctx context.Context, guildID, channelID string, actor Actor) (bool, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return false, err
	}

	if !canClose(tc, actor) {
		return false, fmt.Errorf("%w: only the ticket creator or staff can cancel closing this ticket", ErrForbidden)
	}

	return c.pending.Delete(channelID), nil
}

// ConfirmClose closes the ticket: renders the transcript, moves the record to the closed
// collection, notifies the log channel and schedules the channel for deletion.
func (c *Controller) ConfirmClose(ctx context.Context, guildID, channelID string, actor Actor) (*entities.Ticket, error) {
	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	t, err := c.ticket(ctx, guildID, channelID)
	if errors.Is(err, ErrNotFound) {
		// The record already moved on an earlier confirmation; only the deletion may be outstanding.
		closed, closedErr := c.tickets.GetClosedTicketByChannel(ctx, guildID, channelID)
		if closedErr == nil && (isStaff(&g.Ticketing, actor) || actor.ID == closed.UserID) {
			c.pending.Delete(channelID)
			c.scheduleDelete(closed)
			return closed, nil
		} else if closedErr != nil && !errors.Is(closedErr, dataaccess.ErrNotFound) {
			return nil, external("getting closed ticket", closedErr)
		}
		return nil, err
	} else if err != nil {
		return nil, err
	}

	tc := &ticketContext{guild: g, ticket: t}
	if !canClose(tc, actor) {
		return nil, fmt.Errorf("%w: only the ticket creator or staff can close this ticket", ErrForbidden)
	}

	pc, ok := c.pending.Get(channelID, c.now())
	if !ok {
		return nil, fmt.Errorf("%w: no close request is waiting for confirmation, run close again", ErrNotFound)
	}

	l := c.ticketLogger(t)

	transcript, err := c.renderTranscript(t)
	if err != nil {
		l.Error("Error generating transcript", slog.String(logging.KeyError, err.Error()))
		transcript = fmt.Sprintf("Transcript unavailable: %s\n", err)
	}

	closedAt := custom.Datetime(c.now())
	t.Status = entities.StatusClosed
	t.ClosedAt = &closedAt
	t.ClosedBy = actor.ID
	t.CloseReason = pc.Reason
	t.Transcript = transcript

	if c.archive != nil {
		url, err := c.archive.Store(ctx, t, transcript)
		if err != nil {
			l.Error("Error archiving transcript", slog.String(logging.KeyError, err.Error()))
		} else {
			t.TranscriptURL = url
		}
	}

	if err := c.tickets.CloseTicket(ctx, t); err != nil {
		// The confirmation stays pending so the close can be retried.
		return nil, external("moving ticket to closed", err)
	}
	c.pending.Delete(channelID)

	l.Info("Ticket closed", slog.String(logging.KeyUserID, actor.ID))

	c.notify(&g.Ticketing, closedLogMessage(t), l)
	c.scheduleDelete(t)

	return t, nil
}

func canClose(tc *ticketContext, actor Actor) bool {
	return actor.ID == tc.ticket.UserID || isStaff(&tc.guild.Ticketing, actor)
}

func (c *Controller) renderTranscript(t *entities.Ticket) (string, error) {
	msgs, err := c.gw.ChannelMessages(t.ChannelID, transcriptLimit)
	if err != nil {
		return "", external("fetching messages", err)
	}
	return RenderTranscript(t, msgs), nil
}

// scheduleDelete deletes the ticket channel after the delete delay. Failure is logged, not retried.
func (c *Controller) scheduleDelete(t *entities.Ticket) {
	l := c.ticketLogger(t)
	c.afterFunc(c.deleteDelay, func() {
		if err := c.gw.DeleteChannel(t.ChannelID); err != nil {
			l.Error("Error deleting closed ticket channel", slog.String(logging.KeyError, err.Error()))
			return
		}
		l.Info("Closed ticket channel deleted")
	})
}

// Rename sets the channel name of the ticket to "ticket-" followed by the normalized name.
func (c *Controller) Rename(ctx context.Context, guildID, channelID string, actor Actor, newName string) (string, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return "", err
	}

	if !isStaff(&tc.guild.Ticketing, actor) {
		return "", fmt.Errorf("%w: only staff can rename tickets", ErrForbidden)
	}

	name := renamedName(newName)
	if name == "" {
		return "", fmt.Errorf("%w: the new name is empty", ErrInvalid)
	}
	if tc.ticket.IsClaimed() && tc.ticket.ClaimedName != "" {
		name = claimedName(name, tc.ticket.ClaimedName)
	}

	if err := c.gw.RenameChannel(tc.ticket.ChannelID, name); err != nil {
		return "", external("renaming ticket channel", err)
	}

	c.ticketLogger(tc.ticket).Info("Ticket renamed", slog.String("name", name))
	return name, nil
}

// SetPriority changes the priority of the ticket.
func (c *Controller) SetPriority(ctx context.Context, guildID, channelID string, actor Actor, level string) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}

	if !isStaff(&tc.guild.Ticketing, actor) {
		return nil, fmt.Errorf("%w: only staff can change the priority", ErrForbidden)
	}

	p, ok := entities.ParsePriority(level)
	if !ok {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalid, level)
	}

	t := tc.ticket
	t.Priority = p
	if err := c.tickets.SaveTicket(ctx, t); err != nil {
		return nil, external("saving ticket", err)
	}

	c.ticketLogger(t).Info("Ticket priority changed", slog.String("priority", string(p)))
	return t, nil
}

// AddMember lets the user see and write in the ticket.
func (c *Controller) AddMember(ctx context.Context, guildID, channelID string, actor Actor, userID string) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}

	if !isStaff(&tc.guild.Ticketing, actor) {
		return nil, fmt.Errorf("%w: only staff can add users to tickets", ErrForbidden)
	}

	if err := c.gw.SetPermission(tc.ticket.ChannelID, userID, discordgo.PermissionOverwriteTypeMember, memberAllow, 0); err != nil {
		return nil, external("granting channel access", err)
	}

	c.ticketLogger(tc.ticket).Info("User added to ticket", slog.String(logging.KeyUserID, userID))
	return tc.ticket, nil
}

// RemoveMember takes away the access of the user to the ticket. The creator cannot be removed.
func (c *Controller) RemoveMember(ctx context.Context, guildID, channelID string, actor Actor, userID string) (*entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return nil, err
	}

	if !isStaff(&tc.guild.Ticketing, actor) {
		return nil, fmt.Errorf("%w: only staff can remove users from tickets", ErrForbidden)
	}

	if userID == tc.ticket.UserID {
		return nil, fmt.Errorf("%w: the ticket creator cannot be removed", ErrForbidden)
	}

	if err := c.gw.DeletePermission(tc.ticket.ChannelID, userID); err != nil {
		return nil, external("revoking channel access", err)
	}

	c.ticketLogger(tc.ticket).Info("User removed from ticket", slog.String(logging.KeyUserID, userID))
	return tc.ticket, nil
}

// Transcript renders the current history of the ticket.
func (c *Controller) Transcript(ctx context.Context, guildID, channelID string, actor Actor) (string, *entities.Ticket, error) {
	tc, unlock, err := c.resolve(ctx, guildID, channelID)
	defer unlock()
	if err != nil {
		return "", nil, err
	}

	if !canClose(tc, actor) {
		return "", nil, fmt.Errorf("%w: only the ticket creator or staff can export the transcript", ErrForbidden)
	}

	transcript, err := c.renderTranscript(tc.ticket)
	if err != nil {
		return "", nil, err
	}
	return transcript, tc.ticket, nil
}
