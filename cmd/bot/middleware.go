package main

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"
)

// commandController picks the processor for a slash command, usually by its sub command.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles an interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(l *slog.Logger, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			code := fmt.Sprintf("%d", cw.StatusCode())
			HttpTotalRequests.WithLabelValues(path, r.Method, code).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, code).Observe(time.Since(now).Seconds())
		}()

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				request.WriteJSON(l, cw, http.StatusInternalServerError, request.NewMessage(request.ErrInternalServer.Error()))
			}
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches slash commands by name and message components by custom ID.
func interactionHandler(a IApp, slashControllers map[string]commandController, componentProcessors map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			name      string
			processor commandProcessor
		)

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name = i.ApplicationCommandData().Name
		case discordgo.InteractionMessageComponent:
			name = i.MessageComponentData().CustomID
		default:
			return
		}

		l := a.Log().With(
			slog.String("interaction", name),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyChannelID, i.ChannelID),
		)
		l.Debug("Handling interaction")

		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic handling interaction",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondEphemeral(a, i, msgErrProcessing); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		if i.Member == nil || i.GuildID == "" {
			if err := respondEphemeral(a, i, msgGuildOnly); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		t := prometheus.NewTimer(DiscordInteractionDuration.WithLabelValues(name))
		defer t.ObserveDuration()

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			controller, ok := slashControllers[name]
			if !ok {
				l.Error("No controller found for command")
				if err := respondEphemeral(a, i, msgErrProcessing); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
				return
			}

			var err error
			processor, err = controller(a, i)
			if err != nil {
				handleInteractionError(a, l, i, name, err)
				return
			}
		case discordgo.InteractionMessageComponent:
			var ok bool
			processor, ok = componentProcessors[name]
			if !ok {
				// Components of other bots or stale messages.
				l.Warn("No processor found for component")
				if err := respondEphemeral(a, i, msgErrProcessing); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
				return
			}
		}

		if err := processor(a, i); err != nil {
			handleInteractionError(a, l, i, name, err)
		}
	}
}

func handleInteractionError(a IApp, l *slog.Logger, i *discordgo.InteractionCreate, name string, err error) {
	kind := errorKind(err)
	TotalInteractionErrors.WithLabelValues(name, kind).Inc()

	switch kind {
	case "external", "internal":
		l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
	default:
		l.Debug("Interaction rejected", slog.String(logging.KeyError, err.Error()))
	}

	if err := respondError(a, i, err); err != nil {
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}
