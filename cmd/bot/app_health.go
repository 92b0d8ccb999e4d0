package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alexliesenfeld/health"
	"golang.org/x/exp/slog"
)

func (a *App) healthCheck() Controller {
	opts := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// Monitor the health of the ticket store.
		health.WithCheck(health.Check{
			Name: fmt.Sprintf("store_%s", a.stores.backend),
			Check: func(ctx context.Context) error {
				if err := a.stores.pinger.Ping(ctx); err != nil {
					return fmt.Errorf("failed to ping %s store: %w", a.stores.backend, err)
				}
				return nil
			},
			Timeout:        2 * time.Second,
			StatusListener: a.statusListener,
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.statusListener,
		}),
	}

	if a.archive != nil {
		// Transcripts are still posted to the log channel without the archive, so a failure
		// only degrades the service.
		opts = append(opts, health.WithPeriodicCheck(30*time.Second, 5*time.Second, health.Check{
			Name:           "transcript_archive",
			Check:          a.archive.Ping,
			Timeout:        3 * time.Second,
			MaxTimeInError: 5 * time.Minute,
			StatusListener: a.statusListener,
		}))
	}

	return Controller(health.NewHandler(health.NewChecker(opts...)))
}

func (a *App) statusListener(_ context.Context, name string, state health.CheckState) {
	a.Log().Info("Health check status changed",
		slog.String("name", name),
		slog.String("state", string(state.Status)),
	)
}
