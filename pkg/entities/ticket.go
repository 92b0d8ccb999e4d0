package entities

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
)

// Priority is the urgency of a ticket.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}

// ParsePriority parses a priority level, ignoring case.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Ticket is a ticket.
type Ticket struct {
	// ID is the number of the ticket, unique within the guild.
	ID string `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// ParentChannelID is the category channel the ticket was created under.
	ParentChannelID string `json:"parent_channel_id" bson:"parent_channel_id"`

	// UserID is the ID of the user that created the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// Username is the username of the user that created the ticket.
	Username string `json:"username" bson:"username"`

	// CategoryID is the category chosen when the ticket was created.
	CategoryID string `json:"category_id" bson:"category_id"`

	// CategoryName is kept so the ticket still reads correctly if the category is removed.
	CategoryName string `json:"category_name" bson:"category_name"`

	Priority Priority `json:"priority" bson:"priority"`

	Status Status `json:"status" bson:"status"`

	// ClaimedBy is the ID of the user that claimed the ticket.
	ClaimedBy string `json:"claimed_by,omitempty" bson:"claimed_by,omitempty"`

	// ClaimedName is the suffix appended to the channel name when the ticket was claimed.
	ClaimedName string `json:"claimed_name,omitempty" bson:"claimed_name,omitempty"`

	// WelcomeMessageID is the ID of the pinned control message in the ticket channel.
	WelcomeMessageID string `json:"welcome_message_id,omitempty" bson:"welcome_message_id,omitempty"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// ClosedAt is the time that the ticket was closed.
	ClosedAt *custom.Datetime `json:"closed_at,omitempty" bson:"closed_at,omitempty"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closed_by,omitempty" bson:"closed_by,omitempty"`

	CloseReason string `json:"close_reason,omitempty" bson:"close_reason,omitempty"`

	// Transcript is the plain text history of the channel at closure.
	Transcript string `json:"transcript,omitempty" bson:"transcript,omitempty"`

	// TranscriptURL is where the transcript was archived, if an archive is configured.
	TranscriptURL string `json:"transcript_url,omitempty" bson:"transcript_url,omitempty"`
}

// Name returns the channel name of the ticket, for example "ticket-1234-support-7".
func (t *Ticket) Name() string {
	return fmt.Sprintf("ticket-%s-%s-%s", t.UserID, t.CategoryID, t.ID)
}

// IsClaimed reports whether a staff member has claimed the ticket.
func (t *Ticket) IsClaimed() bool {
	return t.ClaimedBy != ""
}

// TicketCounts is a snapshot of the number of tickets in each collection.
type TicketCounts struct {
	Open   int64 `json:"open"`
	Closed int64 `json:"closed"`
}
