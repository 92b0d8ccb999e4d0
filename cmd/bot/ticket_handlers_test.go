package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

// recordingTransport answers every Discord API call and keeps them in order.
type recordingTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}

	rt.mu.Lock()
	rt.requests = append(rt.requests, recordedRequest{method: req.Method, path: req.URL.Path, body: body})
	rt.mu.Unlock()

	resp := `{"id":"1"}`
	if req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "/messages") {
		resp = `[]`
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(resp)),
		Request:    req,
	}, nil
}

func (rt *recordingTransport) Requests() []recordedRequest {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]recordedRequest(nil), rt.requests...)
}

func TestConfirmCloseProcessor_DefersFirst(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	rt := new(recordingTransport)
	s, err := discordgo.New("Bot token")
	require.NoError(t, err)
	s.Client = &http.Client{Transport: rt}

	store, err := dataaccess.NewFileStore(l, t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveTicket(ctx, &entities.Ticket{
		ID:         "1",
		GuildID:    "guild",
		ChannelID:  "channel",
		UserID:     "user",
		CategoryID: "support",
		Priority:   entities.PriorityNormal,
		Status:     entities.StatusOpen,
	}))

	ctrl := ticketing.NewController(l, newSessionGateway(s), store, store,
		ticketing.WithClock(time.Now, func(time.Duration, func()) {}),
	)

	actor := ticketing.Actor{ID: "user"}
	_, err = ctrl.RequestClose(ctx, "guild", "channel", actor, "done")
	require.NoError(t, err)

	a := &App{Logger: l, s: s, tickets: ctrl}
	i := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction",
			AppID:     "app",
			Token:     "token",
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   "guild",
			ChannelID: "channel",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "user"}},
			Data:      discordgo.MessageComponentInteractionData{CustomID: ticketing.CloseConfirmButtonID},
		},
	}

	require.NoError(t, confirmCloseProcessor(a, i))

	reqs := rt.Requests()
	require.GreaterOrEqual(t, len(reqs), 3)

	// The acknowledgement is sent before any work is done for the close.
	require.Equal(t, http.MethodPost, reqs[0].method)
	require.True(t, strings.HasSuffix(reqs[0].path, "/interactions/interaction/token/callback"), reqs[0].path)
	var ack struct {
		Type discordgo.InteractionResponseType `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(reqs[0].body), &ack))
	require.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, ack.Type)

	require.Equal(t, http.MethodGet, reqs[1].method)
	require.True(t, strings.HasSuffix(reqs[1].path, "/channels/channel/messages"), reqs[1].path)

	last := reqs[len(reqs)-1]
	require.Equal(t, http.MethodPost, last.method)
	require.True(t, strings.HasSuffix(last.path, "/webhooks/app/token"), last.path)
	require.Contains(t, last.body, "Ticket #1 has been closed by")

	closed, err := store.GetClosedTicketByChannel(ctx, "guild", "channel")
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, closed.Status)
	require.Equal(t, "done", closed.CloseReason)
}
