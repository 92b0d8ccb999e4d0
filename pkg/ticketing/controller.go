package ticketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

const (
	// DefaultDeleteDelay is how long a closed ticket channel stays before it is deleted.
	DefaultDeleteDelay = 10 * time.Second

	// DefaultConfirmTimeout is how long a close request waits for confirmation.
	DefaultConfirmTimeout = 60 * time.Second

	// DefaultCreationInterval is the rate at which a user regains ticket creations.
	DefaultCreationInterval = 10 * time.Second

	// DefaultCreationBurst is the number of tickets a user can open back to back.
	DefaultCreationBurst = 2

	// parentChannelName is the name of the lazily created category for tickets.
	parentChannelName = "Tickets"
)

// TranscriptArchive stores transcripts of closed tickets outside the chat platform.
type TranscriptArchive interface {
	// Store saves the transcript and returns where it can be found.
	Store(ctx context.Context, t *entities.Ticket, transcript string) (string, error)
}

// Controller enforces the ticket lifecycle and keeps the ticket records consistent with the
// channels on the chat platform.
type Controller struct {
	// l is the logger.
	l *slog.Logger

	gw      Gateway
	guilds  dataaccess.GuildDal
	tickets dataaccess.TicketDal
	archive TranscriptArchive

	locks   *keyedMutex
	limiter *creationLimiter
	pending *pendingCloses

	deleteDelay    time.Duration
	confirmTimeout time.Duration

	// now returns the current time.
	now func() time.Time

	// afterFunc schedules f to run after d.
	afterFunc func(d time.Duration, f func())
}

// Option configures a Controller.
type Option func(c *Controller)

// WithArchive stores transcripts of closed tickets in the archive.
func WithArchive(a TranscriptArchive) Option {
	return func(c *Controller) {
		c.archive = a
	}
}

// WithDeleteDelay sets how long a closed ticket channel stays before deletion.
func WithDeleteDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.deleteDelay = d
	}
}

// WithConfirmTimeout sets how long a close request waits for confirmation.
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.confirmTimeout = d
	}
}

// WithCreationRate sets how fast a single user may open tickets. rate.Inf disables the limit.
func WithCreationRate(every rate.Limit, burst int) Option {
	return func(c *Controller) {
		c.limiter = newCreationLimiter(every, burst)
	}
}

// WithClock replaces the clock and the scheduler used for deferred deletion.
func WithClock(now func() time.Time, afterFunc func(d time.Duration, f func())) Option {
	return func(c *Controller) {
		c.now = now
		c.afterFunc = afterFunc
	}
}

// NewController creates a new Controller.
func NewController(l *slog.Logger, gw Gateway, guilds dataaccess.GuildDal, tickets dataaccess.TicketDal, opts ...Option) *Controller {
	c := &Controller{
		l:              l.With(slog.String("component", "ticketing")),
		gw:             gw,
		guilds:         guilds,
		tickets:        tickets,
		locks:          newKeyedMutex(),
		limiter:        newCreationLimiter(rate.Every(DefaultCreationInterval), DefaultCreationBurst),
		pending:        newPendingCloses(),
		deleteDelay:    DefaultDeleteDelay,
		confirmTimeout: DefaultConfirmTimeout,
		now:            func() time.Time { return time.Now().UTC() },
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// guild loads the guild configuration, defaulting it when the guild has never been configured.
func (c *Controller) guild(ctx context.Context, guildID string) (*entities.Guild, error) {
	g, err := c.guilds.GetGuildByID(ctx, guildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return entities.NewGuild(guildID), nil
	} else if err != nil {
		return nil, external("getting guild configuration", err)
	}
	return g, nil
}

func (c *Controller) saveGuild(ctx context.Context, g *entities.Guild) error {
	if err := c.guilds.SaveGuild(ctx, g); err != nil {
		return external("saving guild configuration", err)
	}
	return nil
}

// ticket resolves the open ticket of a channel.
func (c *Controller) ticket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	t, err := c.tickets.GetTicketByChannel(ctx, guildID, channelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, fmt.Errorf("%w: channel %s is not an open ticket", ErrNotFound, channelID)
	} else if err != nil {
		return nil, external("getting ticket", err)
	}
	return t, nil
}

// ticketContext is an open ticket resolved together with its guild configuration.
type ticketContext struct {
	guild  *entities.Guild
	ticket *entities.Ticket
}

// resolve locks the guild and resolves the ticket of the channel. The returned unlock function
// must be called when done, also on error.
func (c *Controller) resolve(ctx context.Context, guildID, channelID string) (*ticketContext, func(), error) {
	unlock := c.locks.Lock(guildID)

	g, err := c.guild(ctx, guildID)
	if err != nil {
		return nil, unlock, err
	}

	t, err := c.ticket(ctx, guildID, channelID)
	if err != nil {
		return nil, unlock, err
	}

	return &ticketContext{guild: g, ticket: t}, unlock, nil
}

func (c *Controller) ticketLogger(t *entities.Ticket) *slog.Logger {
	return c.l.With(
		slog.String(logging.KeyGuildID, t.GuildID),
		slog.String(logging.KeyChannelID, t.ChannelID),
		slog.String(logging.KeyTicketID, t.ID),
	)
}

// GuildConfig returns the ticketing configuration of the guild.
func (c *Controller) GuildConfig(ctx context.Context, guildID string) (*entities.Guild, error) {
	return c.guild(ctx, guildID)
}

// Info returns the open ticket of the channel.
func (c *Controller) Info(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	return c.ticket(ctx, guildID, channelID)
}

// Counts returns the number of open and closed tickets of a guild, or of all guilds when guildID is empty.
func (c *Controller) Counts(ctx context.Context, guildID string) (*entities.TicketCounts, error) {
	counts, err := c.tickets.CountTickets(ctx, guildID)
	if err != nil {
		return nil, external("counting tickets", err)
	}
	return counts, nil
}

// ConfirmTimeout returns how long a close request waits for confirmation.
func (c *Controller) ConfirmTimeout() time.Duration {
	return c.confirmTimeout
}

// DeleteDelay returns how long a closed ticket channel stays before it is deleted.
func (c *Controller) DeleteDelay() time.Duration {
	return c.deleteDelay
}
