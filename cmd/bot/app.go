package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/archive"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/request"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathStatus is the path for the status summary.
	PathStatus = "/api/status"
)

// shutdownTimeout bounds the graceful shutdown of the monitoring server.
const shutdownTimeout = 5 * time.Second

// IApp is the interface for the application.
type IApp interface {
	// Session returns the discord session.
	Session() *discordgo.Session

	// Log returns the logger.
	Log() *slog.Logger

	// Tickets returns the ticket controller.
	Tickets() *ticketing.Controller
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	stores  *stores
	archive *archive.MinioArchive
	tickets *ticketing.Controller

	// startedAt is when Run was called.
	startedAt time.Time
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		r:      r,
	}
}

func (a *App) Run() error {
	a.startedAt = time.Now().UTC()

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	st, err := newStores(a.Logger)
	if err != nil {
		return fmt.Errorf("error setting up stores: %w", err)
	}
	a.stores = st

	arc, err := newArchive(a.Logger)
	if err != nil {
		return fmt.Errorf("error setting up transcript archive: %w", err)
	}
	a.archive = arc

	opts := make([]ticketing.Option, 0, 2)
	if arc != nil {
		opts = append(opts, ticketing.WithArchive(arc))
	}
	if DeleteDelay > 0 {
		opts = append(opts, ticketing.WithDeleteDelay(DeleteDelay))
	}
	a.tickets = ticketing.NewController(a.Logger, newSessionGateway(a.s), st.guilds, st.tickets, opts...)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.Username), slog.Int("guilds", len(r.Guilds)))
	})

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	if err := a.ShutdownHook(); err != nil {
		return fmt.Errorf("error shutting down application: %w", err)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			a.Error("Error shutting down monitoring server", slog.String(logging.KeyError, err.Error()))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}

	if dataaccess.MongoDB != nil {
		if err := dataaccess.MongoDB.Disconnect(ctx); err != nil {
			return fmt.Errorf("error disconnecting from MongoDB: %w", err)
		}
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Buffered so the gateway is not blocked by the metrics listener.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Logger, a.healthCheck())).Methods(http.MethodGet)
	a.r.HandleFunc(PathStatus, middlewareHttp(a.Logger, statusHandler(a.Logger, a.statusSource()))).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			ticketCmdName: ticketCmdController,
			setupCmdName:  setupCmdController,
		},
		// Component Processors
		map[string]commandProcessor{
			ticketing.CategorySelectID:     createTicketProcessor,
			ticketing.CloseButtonID:        requestCloseProcessor,
			ticketing.CloseConfirmButtonID: confirmCloseProcessor,
			ticketing.CloseCancelButtonID:  cancelCloseProcessor,
			ticketing.ClaimButtonID:        claimProcessor,
			ticketing.TranscriptButtonID:   transcriptProcessor,
			ticketing.PriorityButtonID:     priorityMenuProcessor,
			ticketing.PrioritySelectID:     prioritySelectProcessor,
			ticketing.AddUserButtonID:      addUserMenuProcessor,
			ticketing.AddUserSelectID:      addUserSelectProcessor,
			ticketing.InfoButtonID:         infoProcessor,
		}))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// statusSource reads the status summary from the running application.
func (a *App) statusSource() statusSource {
	return statusSource{
		backend:   a.stores.backend,
		startedAt: a.startedAt,
		counts:    a.tickets.Counts,
		guilds: func() int {
			if a.s.State == nil {
				return 0
			}
			a.s.State.RLock()
			defer a.s.State.RUnlock()
			return len(a.s.State.Guilds)
		},
	}
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Tickets() *ticketing.Controller {
	return a.tickets
}
