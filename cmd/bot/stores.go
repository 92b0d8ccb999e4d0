package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/archive"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/connection"
	"golang.org/x/exp/slog"
)

const (
	backendMongo = "mongo"
	backendFile  = "file"
)

// setupTimeout bounds the index and bucket creation at startup.
const setupTimeout = 10 * time.Second

// stores is the persistence the ticket controller runs on.
type stores struct {
	backend string
	guilds  dataaccess.GuildDal
	tickets dataaccess.TicketDal
	pinger  dataaccess.Pinger
}

// newStores connects MongoDB when a URI is configured and falls back to the file store otherwise.
func newStores(l *slog.Logger) (*stores, error) {
	if MongoUri == "" {
		fs, err := dataaccess.NewFileStore(l, DataDir)
		if err != nil {
			return nil, fmt.Errorf("error opening file store: %w", err)
		}

		l.Info("Using file store", slog.String("dir", DataDir))
		return &stores{
			backend: backendFile,
			guilds:  fs,
			tickets: fs,
			pinger:  fs,
		}, nil
	}

	if err := connectMongo(l); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if err := dataaccess.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("error ensuring indexes: %w", err)
	}

	tickets := dataaccess.NewTicketDal(l)
	pinger, ok := tickets.(dataaccess.Pinger)
	if !ok {
		return nil, errors.New("ticket dal cannot be pinged")
	}

	l.Info("Using MongoDB store")
	return &stores{
		backend: backendMongo,
		guilds:  dataaccess.NewGuildDal(l),
		tickets: tickets,
		pinger:  pinger,
	}, nil
}

func connectMongo(l *slog.Logger) error {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = MongoUri

	db, err := mongoConn.Connect()
	if err != nil {
		return fmt.Errorf("error connecting to mongo: %w", err)
	} else if db == nil {
		return errors.New("mongo client came back nil")
	}

	dataaccess.MongoDB = db

	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
	return nil
}

// newArchive creates the transcript archive, or returns nil when none is configured.
func newArchive(l *slog.Logger) (*archive.MinioArchive, error) {
	if MinioEndpoint == "" {
		l.Info("No transcript archive configured", slog.String("key", EnvMinioEndpoint))
		return nil, nil
	}

	a, err := archive.NewMinioArchive(l, archive.Config{
		Endpoint:  MinioEndpoint,
		AccessKey: MinioAccessKey,
		SecretKey: MinioSecretKey,
		Bucket:    MinioBucket,
		UseSSL:    MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating transcript archive: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if err := a.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("error ensuring transcript bucket: %w", err)
	}
	return a, nil
}
