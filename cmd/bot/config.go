package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

const (
	// AppName is the name of the application.
	AppName = "ticketbot"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvDataDir is the environment variable for the directory of the file store.
	EnvDataDir = `DATA_DIR`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvDeleteDelay is the environment variable for how long closed ticket channels are kept.
	EnvDeleteDelay = `TICKET_DELETE_DELAY`

	EnvMinioEndpoint  = `MINIO_ENDPOINT`
	EnvMinioAccessKey = `MINIO_ACCESS_KEY`
	EnvMinioSecretKey = `MINIO_SECRET_KEY`
	EnvMinioBucket    = `MINIO_BUCKET`
	EnvMinioUseSSL    = `MINIO_USE_SSL`
)

const (
	defaultDataDir        = "./data"
	defaultMonitoringPort = "8080"
	defaultMinioBucket    = "transcripts"
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database. When empty the file store is used.
	MongoUri string

	// DataDir is the directory of the file store.
	DataDir string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// DeleteDelay is how long closed ticket channels are kept before deletion.
	DeleteDelay time.Duration

	// MinioEndpoint is the endpoint of the transcript archive. When empty transcripts are not archived.
	MinioEndpoint string

	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
)

// errIncompleteConfig is returned when a required environment variable is missing.
var errIncompleteConfig = errors.New("not all required environment variables have been provided")

func parseConfig(l *slog.Logger) error {
	// A .env file is optional, the environment always wins over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	BotToken = lookupEnv(l, EnvBotToken, "")
	ApplicationId = lookupEnv(l, EnvApplicationId, "")
	MongoUri = lookupEnv(l, EnvMongoUri, "")
	DataDir = lookupEnv(l, EnvDataDir, defaultDataDir)
	MonitoringPort = lookupEnv(l, EnvMonitoringPort, defaultMonitoringPort)

	MinioEndpoint = lookupEnv(l, EnvMinioEndpoint, "")
	MinioAccessKey = lookupEnv(l, EnvMinioAccessKey, "")
	MinioSecretKey = lookupEnv(l, EnvMinioSecretKey, "")
	MinioBucket = lookupEnv(l, EnvMinioBucket, defaultMinioBucket)

	if v := lookupEnv(l, EnvMinioUseSSL, "false"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", EnvMinioUseSSL, err)
		}
		MinioUseSSL = useSSL
	}

	DeleteDelay = 0
	if v := lookupEnv(l, EnvDeleteDelay, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", EnvDeleteDelay, err)
		} else if d < 0 {
			return fmt.Errorf("%s must not be negative", EnvDeleteDelay)
		}
		DeleteDelay = d
	}

	if BotToken == "" || ApplicationId == "" {
		return fmt.Errorf("%w: %s and %s are required", errIncompleteConfig, EnvBotToken, EnvApplicationId)
	}

	l.Debug("All required environment variables have been provided")
	return nil
}

// lookupEnv returns the value of the environment variable, or def when it is unset or empty.
func lookupEnv(l *slog.Logger, key, def string) string {
	if v := os.Getenv(key); v != "" {
		l.Debug("Found value in environment", slog.String("key", key))
		return v
	}

	if def != "" {
		l.Debug("No value in environment, using default", slog.String("key", key), slog.String("default", def))
	}
	return def
}
