package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestStatusHandler(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	var gotGuild string
	src := statusSource{
		backend:   backendFile,
		startedAt: time.Now().Add(-time.Hour),
		counts: func(_ context.Context, guildID string) (*entities.TicketCounts, error) {
			gotGuild = guildID
			return &entities.TicketCounts{Open: 2, Closed: 5}, nil
		},
		guilds: func() int { return 3 },
	}

	r := mux.NewRouter()
	r.HandleFunc(PathStatus, middlewareHttp(l, statusHandler(l, src))).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathStatus+"?guild=123", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "123", gotGuild)

	var got status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, AppName, got.App)
	require.Equal(t, backendFile, got.Backend)
	require.Equal(t, 3, got.Guilds)
	require.Equal(t, &entities.TicketCounts{Open: 2, Closed: 5}, got.Tickets)
	require.Equal(t, "1h0m0s", got.Uptime)
}

func TestStatusHandler_Error(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	src := statusSource{
		counts: func(context.Context, string) (*entities.TicketCounts, error) {
			return nil, errors.New("store unavailable")
		},
		guilds: func() int { return 0 },
	}

	w := httptest.NewRecorder()
	statusHandler(l, src)(w, httptest.NewRequest(http.MethodGet, PathStatus, nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"Message":"Error counting tickets","Error":"store unavailable"}`, w.Body.String())
}

func TestMiddlewareHttp_RecoversPanic(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	h := middlewareHttp(l, func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"Message":"internal server error"}`, w.Body.String())
}
