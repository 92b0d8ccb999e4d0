package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/request"
	"golang.org/x/exp/slog"
)

// statusTimeout bounds the ticket count queries of the status endpoint.
const statusTimeout = 3 * time.Second

// statusSource is where the status endpoint reads from.
type statusSource struct {
	backend   string
	startedAt time.Time
	counts    func(ctx context.Context, guildID string) (*entities.TicketCounts, error)
	guilds    func() int
}

// status is the body of the status endpoint.
type status struct {
	App     string                 `json:"app"`
	Backend string                 `json:"backend"`
	Uptime  string                 `json:"uptime"`
	Guilds  int                    `json:"guilds"`
	Tickets *entities.TicketCounts `json:"tickets"`
}

// statusHandler reports the number of guilds and tickets. The guild query parameter narrows the
// ticket counts to a single guild.
func statusHandler(l *slog.Logger, src statusSource) Controller {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
		defer cancel()

		counts, err := src.counts(ctx, r.URL.Query().Get("guild"))
		if err != nil {
			l.Error("Error counting tickets", slog.String(logging.KeyError, err.Error()))
			request.WriteJSON(l, w, http.StatusInternalServerError, request.NewMessageError("Error counting tickets", err))
			return
		}

		request.WriteJSON(l, w, http.StatusOK, &status{
			App:     AppName,
			Backend: src.backend,
			Uptime:  time.Since(src.startedAt).Round(time.Second).String(),
			Guilds:  src.guilds(),
			Tickets: counts,
		})
	}
}
