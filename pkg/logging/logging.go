package logging

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

const (
	// KeyError is the key for errors in log attributes.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyGuildID is the key for the guild ID.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key for the channel ID.
	KeyChannelID = "channel_id"

	// KeyUserID is the key for the user ID.
	KeyUserID = "user_id"

	// KeyTicketID is the key for the ticket ID.
	KeyTicketID = "ticket_id"

	// KeyApp is the key for the application name.
	KeyApp = "app"
)

// EnvLogLevel is the environment variable used to set the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the minimum level that will be logged.
	level slog.Level
}

// NewConfig creates a new logging config, reading the level from the environment.
func NewConfig(name Name) *Config {
	return &Config{
		appName: name,
		level:   parseLevel(os.Getenv(EnvLogLevel)),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		return nil, errors.New("nil logging config")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: cfg.level == slog.LevelDebug,
		Level:     cfg.level,
	})

	l := slog.New(h).With(slog.String(KeyApp, string(cfg.appName)))
	slog.SetDefault(l)
	return l, nil
}
