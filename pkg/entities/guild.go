package entities

const (
	// DefaultMaxTicketsPerUser is the open ticket limit applied to new guild configurations.
	DefaultMaxTicketsPerUser = 3

	// MinTicketsPerUser is the lowest open ticket limit a guild can configure.
	MinTicketsPerUser = 1

	// MaxTicketsPerUser is the highest open ticket limit a guild can configure.
	MaxTicketsPerUser = 5
)

// Guild is a configuration for a guild.
type Guild struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id"`

	// Version is incremented every time the guild is saved. A save made against a stale
	// version is rejected by the store.
	Version int64 `json:"version" bson:"version"`

	// Ticketing is the ticketing configuration.
	Ticketing TicketingConfig `json:"ticketing" bson:"ticketing"`
}

// NewGuild returns a guild with the default ticketing configuration.
func NewGuild(id string) *Guild {
	return &Guild{
		ID: id,
		Ticketing: TicketingConfig{
			MaxTicketsPerUser: DefaultMaxTicketsPerUser,
		},
	}
}

// TicketingConfig is the ticketing configuration of a guild.
type TicketingConfig struct {
	// Enabled is whether ticketing is enabled.
	Enabled bool `json:"enabled" bson:"enabled"`

	// Categories are the ticket categories offered on the panel, in display order.
	Categories []Category `json:"categories" bson:"categories"`

	// MaxTicketsPerUser is the number of open tickets a user may hold at once.
	MaxTicketsPerUser int `json:"max_tickets_per_user" bson:"max_tickets_per_user"`

	// StaffRoleIDs are the roles that handle tickets.
	StaffRoleIDs []string `json:"staff_role_ids" bson:"staff_role_ids"`

	// LogChannelID is the channel that ticket events are logged to.
	LogChannelID string `json:"log_channel_id,omitempty" bson:"log_channel_id,omitempty"`

	// ParentChannelID is the category channel that ticket channels are created in.
	ParentChannelID string `json:"parent_channel_id,omitempty" bson:"parent_channel_id,omitempty"`

	// PanelChannelID is the channel the category selector panel was posted in.
	PanelChannelID string `json:"panel_channel_id,omitempty" bson:"panel_channel_id,omitempty"`

	// PanelMessageID is the ID of the panel message.
	PanelMessageID string `json:"panel_message_id,omitempty" bson:"panel_message_id,omitempty"`
}

// Category returns the category with the given ID.
func (c *TicketingConfig) Category(id string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// IsStaffRole reports whether the role handles tickets.
func (c *TicketingConfig) IsStaffRole(roleID string) bool {
	for _, id := range c.StaffRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Limit returns the open ticket limit, falling back to the default when unset.
func (c *TicketingConfig) Limit() int {
	if c.MaxTicketsPerUser < MinTicketsPerUser || c.MaxTicketsPerUser > MaxTicketsPerUser {
		return DefaultMaxTicketsPerUser
	}
	return c.MaxTicketsPerUser
}

// Category is a type of ticket a user can open.
type Category struct {
	// ID is the slug of the category name.
	ID string `json:"id" bson:"id"`

	// Name is the display name.
	Name string `json:"name" bson:"name"`

	// Emoji is shown next to the name on the panel.
	Emoji string `json:"emoji" bson:"emoji"`

	// Description is shown under the name on the panel.
	Description string `json:"description" bson:"description"`
}
