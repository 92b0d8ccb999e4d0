package ticketing

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

// ConfigUpdate holds the configuration changes of a single command. Nil and empty fields are left as they are.
type ConfigUpdate struct {
	Enabled           *bool
	AddStaffRoleID    string
	RemoveStaffRoleID string
	LogChannelID      *string
	ParentChannelID   *string
	MaxTicketsPerUser *int
}

// Configure applies the update to the guild configuration.
func (c *Controller) Configure(ctx context.Context, guildID string, actor Actor, u ConfigUpdate) (*entities.Guild, error) {
	if !isAdmin(actor) {
		return nil, fmt.Errorf("%w: configuring ticketing requires the manage server permission", ErrForbidden)
	}

	if u.MaxTicketsPerUser != nil && (*u.MaxTicketsPerUser < entities.MinTicketsPerUser || *u.MaxTicketsPerUser > entities.MaxTicketsPerUser) {
		return nil, fmt.Errorf("%w: max tickets per user must be between %d and %d", ErrInvalid, entities.MinTicketsPerUser, entities.MaxTicketsPerUser)
	}

	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	cfg := &g.Ticketing
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.AddStaffRoleID != "" && !cfg.IsStaffRole(u.AddStaffRoleID) {
		cfg.StaffRoleIDs = append(cfg.StaffRoleIDs, u.AddStaffRoleID)
	}
	if u.RemoveStaffRoleID != "" {
		roles := make([]string, 0, len(cfg.StaffRoleIDs))
		for _, id := range cfg.StaffRoleIDs {
			if id != u.RemoveStaffRoleID {
				roles = append(roles, id)
			}
		}
		cfg.StaffRoleIDs = roles
	}
	if u.LogChannelID != nil {
		cfg.LogChannelID = *u.LogChannelID
	}
	if u.ParentChannelID != nil {
		cfg.ParentChannelID = *u.ParentChannelID
	}
	if u.MaxTicketsPerUser != nil {
		cfg.MaxTicketsPerUser = *u.MaxTicketsPerUser
	}

	if err := c.saveGuild(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// maxCategories is the number of options the panel's select menu can hold.
const maxCategories = 25

// AddCategory adds a ticket category. The category ID is the slug of its name.
func (c *Controller) AddCategory(ctx context.Context, guildID string, actor Actor, name, emoji, description string) (*entities.Category, error) {
	if !isAdmin(actor) {
		return nil, fmt.Errorf("%w: managing categories requires the manage server permission", ErrForbidden)
	}

	name, emoji, description = strings.TrimSpace(name), strings.TrimSpace(emoji), strings.TrimSpace(description)
	if name == "" || emoji == "" || description == "" {
		return nil, fmt.Errorf("%w: a category needs a name, an emoji and a description", ErrInvalid)
	}

	id := Slugify(name)

	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if _, ok := g.Ticketing.Category(id); ok {
		return nil, fmt.Errorf("%w: category %q already exists", ErrInvalid, id)
	}
	if len(g.Ticketing.Categories) >= maxCategories {
		return nil, fmt.Errorf("%w: a server can have at most %d categories", ErrInvalid, maxCategories)
	}

	cat := entities.Category{
		ID:          id,
		Name:        name,
		Emoji:       emoji,
		Description: description,
	}
	g.Ticketing.Categories = append(g.Ticketing.Categories, cat)

	if err := c.saveGuild(ctx, g); err != nil {
		return nil, err
	}
	return &cat, nil
}

// RemoveCategory removes a ticket category by its ID. Tickets of the category keep their category name.
func (c *Controller) RemoveCategory(ctx context.Context, guildID string, actor Actor, id string) (*entities.Category, error) {
	if !isAdmin(actor) {
		return nil, fmt.Errorf("%w: managing categories requires the manage server permission", ErrForbidden)
	}

	id = Slugify(id)

	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, cat := range g.Ticketing.Categories {
		if cat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrNotFound, id)
	}

	removed := g.Ticketing.Categories[idx]
	g.Ticketing.Categories = append(g.Ticketing.Categories[:idx], g.Ticketing.Categories[idx+1:]...)

	if err := c.saveGuild(ctx, g); err != nil {
		return nil, err
	}
	return &removed, nil
}

// ListCategories lists the ticket categories in panel order.
func (c *Controller) ListCategories(ctx context.Context, guildID string) ([]entities.Category, error) {
	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return g.Ticketing.Categories, nil
}

// PostPanel posts the category selector to the channel and enables ticketing.
func (c *Controller) PostPanel(ctx context.Context, guildID string, actor Actor, channelID string) (*discordgo.Message, error) {
	if !isAdmin(actor) {
		return nil, fmt.Errorf("%w: posting the panel requires the manage server permission", ErrForbidden)
	}

	unlock := c.locks.Lock(guildID)
	defer unlock()

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if len(g.Ticketing.Categories) == 0 {
		return nil, fmt.Errorf("%w: add a category before posting the panel", ErrInvalid)
	}

	msg, err := c.gw.SendMessage(channelID, panelMessage(&g.Ticketing))
	if err != nil {
		return nil, external("sending panel", err)
	}

	g.Ticketing.Enabled = true
	g.Ticketing.PanelChannelID = channelID
	g.Ticketing.PanelMessageID = msg.ID

	if err := c.saveGuild(ctx, g); err != nil {
		return nil, err
	}
	return msg, nil
}
