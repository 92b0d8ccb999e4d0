package dataaccess

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/monitoring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the DALs rely on. The unique index on the guild ID is what
// turns a racing first save of a guild into a version conflict.
func EnsureIndexes(ctx context.Context) error {
	db := MongoDB.Database(mongoDatabase)

	indexes := map[string][]mongo.IndexModel{
		collectionGuilds: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionActiveTickets: {
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "channel_id", Value: 1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}}},
		},
		collectionClosedTickets: {
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "channel_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes for %s: %w", name, err)
		}
	}
	return nil
}

func pingMongo(ctx context.Context, client *mongo.Client) error {
	done := monitoring.Observe("health_check", "ping", mongoDatabase, "-")
	defer done()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}
