package dataaccess

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T, dir string) *FileStore {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	s, err := NewFileStore(l, dir)
	require.NoError(t, err)
	return s
}

func TestFileStore_SaveGuildVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t, t.TempDir())

	_, err := s.GetGuildByID(ctx, "g1")
	require.ErrorIs(t, err, ErrNotFound)

	g := entities.NewGuild("g1")
	require.NoError(t, s.SaveGuild(ctx, g))
	require.Equal(t, int64(1), g.Version)

	// Two readers of the same version, the second save must be rejected.
	first, err := s.GetGuildByID(ctx, "g1")
	require.NoError(t, err)
	second, err := s.GetGuildByID(ctx, "g1")
	require.NoError(t, err)

	first.Ticketing.Enabled = true
	require.NoError(t, s.SaveGuild(ctx, first))

	second.Ticketing.MaxTicketsPerUser = 5
	require.ErrorIs(t, s.SaveGuild(ctx, second), ErrVersionConflict)

	got, err := s.GetGuildByID(ctx, "g1")
	require.NoError(t, err)
	require.True(t, got.Ticketing.Enabled)
	require.Equal(t, entities.DefaultMaxTicketsPerUser, got.Ticketing.MaxTicketsPerUser)
	require.Equal(t, int64(2), got.Version)

	// A second brand-new guild with the same ID is a conflict too.
	require.ErrorIs(t, s.SaveGuild(ctx, entities.NewGuild("g1")), ErrVersionConflict)
}

func TestFileStore_GuildIsCopied(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t, t.TempDir())

	g := entities.NewGuild("g1")
	g.Ticketing.StaffRoleIDs = []string{"r1"}
	require.NoError(t, s.SaveGuild(ctx, g))

	got, err := s.GetGuildByID(ctx, "g1")
	require.NoError(t, err)
	got.Ticketing.StaffRoleIDs[0] = "changed"

	again, err := s.GetGuildByID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, []string{"r1"}, again.Ticketing.StaffRoleIDs)
}

func TestFileStore_TicketLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestFileStore(t, dir)

	id, err := s.NextTicketID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	tk := &entities.Ticket{
		ID:        id,
		GuildID:   "g1",
		ChannelID: "c1",
		UserID:    "u1",
		Priority:  entities.PriorityNormal,
		Status:    entities.StatusOpen,
		CreatedAt: custom.Datetime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, s.SaveTicket(ctx, tk))

	id, err = s.NextTicketID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "2", id)

	// Counters are per guild.
	other, err := s.NextTicketID(ctx, "g2")
	require.NoError(t, err)
	require.Equal(t, "1", other)

	got, err := s.GetTicketByChannel(ctx, "g1", "c1")
	require.NoError(t, err)
	require.Equal(t, tk, got)

	userTickets, err := s.ListUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, userTickets, 1)

	closedAt := custom.Datetime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	tk.Status = entities.StatusClosed
	tk.ClosedAt = &closedAt
	tk.ClosedBy = "staff"
	tk.Transcript = "[2024-01-01 00:00:00] u1: hello"
	require.NoError(t, s.CloseTicket(ctx, tk))

	_, err = s.GetTicketByChannel(ctx, "g1", "c1")
	require.ErrorIs(t, err, ErrNotFound)

	closed, err := s.GetClosedTicketByChannel(ctx, "g1", "c1")
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, closed.Status)
	require.Equal(t, tk.Transcript, closed.Transcript)

	// Closed tickets still reserve their ID.
	id, err = s.NextTicketID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "2", id)

	counts, err := s.CountTickets(ctx, "")
	require.NoError(t, err)
	require.Equal(t, &entities.TicketCounts{Open: 0, Closed: 1}, counts)

	// Closing twice is harmless.
	require.NoError(t, s.CloseTicket(ctx, tk))

	// The documents survive a reopen of the store.
	reopened := newTestFileStore(t, dir)
	closed, err = reopened.GetClosedTicketByChannel(ctx, "g1", "c1")
	require.NoError(t, err)
	require.Equal(t, "staff", closed.ClosedBy)
	require.True(t, closedAt.Time().Equal(closed.ClosedAt.Time()))
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := newTestFileStore(t, dir)

	require.NoError(t, s.SaveTicket(ctx, &entities.Ticket{ID: "1", GuildID: "g1", ChannelID: "c1", Status: entities.StatusOpen}))

	b, err := os.ReadFile(filepath.Join(dir, fileActiveTickets))
	require.NoError(t, err)

	var doc map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Equal(t, "c1", doc["g1"]["1"]["channel_id"])
	require.Equal(t, "open", doc["g1"]["1"]["status"])
}

func TestFileStore_ListUserTicketsOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t, t.TempDir())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"3", "1", "2"} {
		require.NoError(t, s.SaveTicket(ctx, &entities.Ticket{
			ID:        id,
			GuildID:   "g1",
			ChannelID: "c" + id,
			UserID:    "u1",
			CreatedAt: custom.Datetime(base.Add(time.Duration(3-i) * time.Minute)),
		}))
	}
	require.NoError(t, s.SaveTicket(ctx, &entities.Ticket{ID: "4", GuildID: "g1", ChannelID: "c4", UserID: "u2"}))

	got, err := s.ListUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "2", got[0].ID)
	require.Equal(t, "1", got[1].ID)
	require.Equal(t, "3", got[2].ID)
}

func TestFileStore_Ping(t *testing.T) {
	s := newTestFileStore(t, t.TempDir())
	require.NoError(t, s.Ping(context.Background()))
}
