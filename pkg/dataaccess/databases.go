package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

const mongoDatabase = "ticketbot"

const (
	collectionGuilds        = "guilds"
	collectionActiveTickets = "tickets_active"
	collectionClosedTickets = "tickets_closed"
	collectionCounters      = "counters"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a guild is saved against a stale version.
	ErrVersionConflict = errors.New("version conflict")
)

// GuildDal stores guild configurations.
type GuildDal interface {
	// SaveGuild saves a guild. The save only succeeds if the stored version matches the
	// version of the given guild, which is incremented on success.
	SaveGuild(ctx context.Context, guild *entities.Guild) error

	// GetGuildByID gets a guild by ID.
	GetGuildByID(ctx context.Context, id string) (*entities.Guild, error)
}

// TicketDal stores ticket records in an active and a closed collection.
type TicketDal interface {
	// NextTicketID allocates the next ticket ID for the guild.
	NextTicketID(ctx context.Context, guildID string) (string, error)

	// SaveTicket saves an open ticket into the active collection.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicketByChannel gets the open ticket for a channel.
	GetTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// GetClosedTicketByChannel gets the closed ticket for a channel.
	GetClosedTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// ListUserTickets lists the open tickets created by a user.
	ListUserTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error)

	// CloseTicket moves the ticket from the active collection to the closed collection.
	CloseTicket(ctx context.Context, ticket *entities.Ticket) error

	// CountTickets counts the tickets in each collection. An empty guild ID counts all guilds.
	CountTickets(ctx context.Context, guildID string) (*entities.TicketCounts, error)
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
