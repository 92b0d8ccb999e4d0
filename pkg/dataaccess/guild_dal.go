package dataaccess

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slog"
)

const guildDalName = "guild_dal"

type guildDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildDal creates a new guild data access layer backed by MongoDB.
func NewGuildDal(logger *slog.Logger) GuildDal {
	l := logger.With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &guildDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (g *guildDalImpl) SaveGuild(ctx context.Context, guild *entities.Guild) error {
	// Get the guild collection.
	collection := g.client.Database(mongoDatabase).Collection(collectionGuilds)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "save_guild_config", mongoDatabase, collectionGuilds).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "save_guild_config", mongoDatabase, collectionGuilds))
	defer t.ObserveDuration()

	next := *guild
	next.Version++

	// Only a brand-new guild may be inserted. Anything else must match the version it was read at.
	opts := options.Update().SetUpsert(guild.Version == 0)
	res, err := collection.UpdateOne(ctx, bson.M{"id": guild.ID, "version": guild.Version}, bson.M{"$set": &next}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("error updating guild %s: %w", guild.ID, ErrVersionConflict)
	} else if err != nil {
		return fmt.Errorf("error updating guild: %w", err)
	}

	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return fmt.Errorf("error updating guild %s: %w", guild.ID, ErrVersionConflict)
	}

	guild.Version = next.Version
	return nil
}

// GetGuildByID gets a guild by ID.
func (g *guildDalImpl) GetGuildByID(ctx context.Context, id string) (*entities.Guild, error) {
	// Get the guild collection.
	collection := g.client.Database(mongoDatabase).Collection(collectionGuilds)

	// Start the prometheus metrics.
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, collectionGuilds).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, collectionGuilds))
	defer t.ObserveDuration()

	// Get the guild.
	guild := new(entities.Guild)

	err := collection.FindOne(ctx, bson.M{"id": id}).Decode(guild)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error getting guild %s: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

func (g *guildDalImpl) Ping(ctx context.Context) error {
	return pingMongo(ctx, g.client)
}
