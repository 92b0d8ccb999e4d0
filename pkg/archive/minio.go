package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/exp/slog"
)

const transcriptContentType = "text/plain; charset=utf-8"

// ErrNoEndpoint is returned when the archive is created without an endpoint.
var ErrNoEndpoint = errors.New("no endpoint configured")

// Config is the connection configuration of the archive.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive stores closed ticket transcripts as objects in a MinIO or S3 compatible bucket.
type MinioArchive struct {
	l      *slog.Logger
	client *minio.Client
	bucket string
}

// NewMinioArchive creates the client. It does not contact the server, call EnsureBucket for that.
func NewMinioArchive(l *slog.Logger, cfg Config) (*MinioArchive, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if cfg.Bucket == "" {
		return nil, errors.New("no bucket configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating minio client: %w", err)
	}

	return &MinioArchive{
		l:      l.With(slog.String("component", "archive"), slog.String("bucket", cfg.Bucket)),
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket: %w", err)
	}

	if exists {
		a.l.Debug("Bucket already exists")
		return nil
	}

	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("error creating bucket: %w", err)
	}
	a.l.Info("Bucket created")
	return nil
}

// Store uploads the transcript and returns the URL of the object.
func (a *MinioArchive) Store(ctx context.Context, t *entities.Ticket, transcript string) (string, error) {
	key := ObjectKey(t)

	info, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(transcript), int64(len(transcript)), minio.PutObjectOptions{
		ContentType: transcriptContentType,
		UserMetadata: map[string]string{
			"guild-id":   t.GuildID,
			"ticket-id":  t.ID,
			"channel-id": t.ChannelID,
			"user-id":    t.UserID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("error uploading transcript: %w", err)
	}

	a.l.Info("Transcript archived",
		slog.String(logging.KeyGuildID, t.GuildID),
		slog.String(logging.KeyTicketID, t.ID),
		slog.String("key", info.Key),
		slog.Int64("size", info.Size))

	return a.objectURL(key), nil
}

// Ping checks the bucket is reachable.
func (a *MinioArchive) Ping(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	} else if !exists {
		return fmt.Errorf("bucket %s does not exist", a.bucket)
	}
	return nil
}

func (a *MinioArchive) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(a.client.EndpointURL().String(), "/"), a.bucket, key)
}

// ObjectKey returns the object key of the transcript of a ticket, for example
// "transcripts/1234/7-5678.txt".
func ObjectKey(t *entities.Ticket) string {
	return fmt.Sprintf("transcripts/%s/%s-%s.txt", t.GuildID, t.ID, t.ChannelID)
}
