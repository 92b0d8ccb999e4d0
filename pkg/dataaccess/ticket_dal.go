package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slog"
)

const ticketDalName = "ticket_dal"

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new ticket data access layer backed by MongoDB.
func NewTicketDal(logger *slog.Logger) TicketDal {
	l := logger.With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketDal) collection(name string) *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(name)
}

func (d *ticketDal) NextTicketID(ctx context.Context, guildID string) (string, error) {
	collection := d.collection(collectionCounters)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, "next_ticket_id", mongoDatabase, collectionCounters).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, "next_ticket_id", mongoDatabase, collectionCounters))
	defer t.ObserveDuration()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": guildID}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("error incrementing ticket counter: %w", err)
	}

	return strconv.FormatInt(counter.Seq, 10), nil
}

func (d *ticketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	collection := d.collection(collectionActiveTickets)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, collectionActiveTickets).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, collectionActiveTickets))
	defer t.ObserveDuration()

	// Save the ticket.
	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"guild_id": ticket.GuildID, "id": ticket.ID}, bson.M{"$set": ticket}, opts)
	if err != nil {
		return fmt.Errorf("error updating ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) GetTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	return d.findByChannel(ctx, "get_ticket_by_channel", collectionActiveTickets, guildID, channelID)
}

func (d *ticketDal) GetClosedTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	return d.findByChannel(ctx, "get_closed_ticket_by_channel", collectionClosedTickets, guildID, channelID)
}

func (d *ticketDal) findByChannel(ctx context.Context, query, name, guildID, channelID string) (*entities.Ticket, error) {
	collection := d.collection(name)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, query, mongoDatabase, name).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, query, mongoDatabase, name))
	defer t.ObserveDuration()

	// Get the ticket.
	var ticket entities.Ticket
	err := collection.FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error getting ticket for channel %s: %w", channelID, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	return &ticket, nil
}

func (d *ticketDal) ListUserTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	collection := d.collection(collectionActiveTickets)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, "list_user_tickets", mongoDatabase, collectionActiveTickets).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, "list_user_tickets", mongoDatabase, collectionActiveTickets))
	defer t.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := collection.Find(ctx, bson.M{"guild_id": guildID, "user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0)
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}
	return tickets, nil
}

// CloseTicket writes the closed record before removing the active one. If the delete fails
// the call can be repeated; both writes are idempotent.
func (d *ticketDal) CloseTicket(ctx context.Context, ticket *entities.Ticket) error {
	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, "close_ticket", mongoDatabase, collectionClosedTickets).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, "close_ticket", mongoDatabase, collectionClosedTickets))
	defer t.ObserveDuration()

	filter := bson.M{"guild_id": ticket.GuildID, "id": ticket.ID}

	opts := options.Update().SetUpsert(true)
	if _, err := d.collection(collectionClosedTickets).UpdateOne(ctx, filter, bson.M{"$set": ticket}, opts); err != nil {
		return fmt.Errorf("error saving closed ticket: %w", err)
	}

	if _, err := d.collection(collectionActiveTickets).DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("error removing active ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) CountTickets(ctx context.Context, guildID string) (*entities.TicketCounts, error) {
	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, "count_tickets", mongoDatabase, "-").Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, "count_tickets", mongoDatabase, "-"))
	defer t.ObserveDuration()

	filter := bson.M{}
	if guildID != "" {
		filter["guild_id"] = guildID
	}

	open, err := d.collection(collectionActiveTickets).CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting active tickets: %w", err)
	}

	closed, err := d.collection(collectionClosedTickets).CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting closed tickets: %w", err)
	}

	return &entities.TicketCounts{
		Open:   open,
		Closed: closed,
	}, nil
}

func (d *ticketDal) Ping(ctx context.Context) error {
	return pingMongo(ctx, d.client)
}
