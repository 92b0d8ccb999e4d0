package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"golang.org/x/exp/slog"
)

const (
	fileDalName = "file_dal"

	fileBackend = "file"

	fileGuilds        = "guilds.json"
	fileActiveTickets = "active.json"
	fileClosedTickets = "closed.json"
)

// ticketDocument maps guild ID to ticket ID to ticket.
type ticketDocument map[string]map[string]*entities.Ticket

// FileStore keeps guilds and tickets as flat JSON documents in a directory. Every mutation
// rewrites the whole document it touches.
type FileStore struct {
	// l is the logger.
	l *slog.Logger

	// dir is the directory holding the documents.
	dir string

	mu     sync.Mutex
	guilds map[string]*entities.Guild
	active ticketDocument
	closed ticketDocument
}

// NewFileStore opens the JSON documents in dir, creating the directory if needed.
func NewFileStore(logger *slog.Logger, dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	s := &FileStore{
		l:      logger.With(slog.String(logging.KeyDal, fileDalName)),
		dir:    dir,
		guilds: make(map[string]*entities.Guild),
		active: make(ticketDocument),
		closed: make(ticketDocument),
	}

	if err := s.load(fileGuilds, &s.guilds); err != nil {
		return nil, err
	}
	if err := s.load(fileActiveTickets, &s.active); err != nil {
		return nil, err
	}
	if err := s.load(fileClosedTickets, &s.closed); err != nil {
		return nil, err
	}

	// A document holding a JSON null decodes to a nil map.
	if s.guilds == nil {
		s.guilds = make(map[string]*entities.Guild)
	}
	if s.active == nil {
		s.active = make(ticketDocument)
	}
	if s.closed == nil {
		s.closed = make(ticketDocument)
	}

	return s, nil
}

func (s *FileStore) load(name string, into any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		s.l.Debug("Document does not exist yet", slog.String("file", name))
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading %s: %w", name, err)
	}

	if len(b) == 0 {
		return nil
	}

	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	return nil
}

// write replaces the document atomically by writing a temp file and renaming it over the old one.
func (s *FileStore) write(name string, doc any) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error closing %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error replacing %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) SaveGuild(_ context.Context, guild *entities.Guild) error {
	defer monitoring.Observe(fileDalName, "save_guild_config", fileBackend, fileGuilds)()

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if existing, ok := s.guilds[guild.ID]; ok {
		current = existing.Version
	}
	if current != guild.Version {
		return fmt.Errorf("error saving guild %s at version %d, stored version is %d: %w", guild.ID, guild.Version, current, ErrVersionConflict)
	}

	next := copyGuild(guild)
	next.Version++

	prev, existed := s.guilds[guild.ID]
	s.guilds[guild.ID] = next
	if err := s.write(fileGuilds, s.guilds); err != nil {
		if existed {
			s.guilds[guild.ID] = prev
		} else {
			delete(s.guilds, guild.ID)
		}
		return err
	}

	guild.Version = next.Version
	return nil
}

func (s *FileStore) GetGuildByID(_ context.Context, id string) (*entities.Guild, error) {
	defer monitoring.Observe(fileDalName, "get_guild_by_id", fileBackend, fileGuilds)()

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guilds[id]
	if !ok {
		return nil, fmt.Errorf("error getting guild %s: %w", id, ErrNotFound)
	}
	return copyGuild(g), nil
}

func (s *FileStore) NextTicketID(_ context.Context, guildID string) (string, error) {
	defer monitoring.Observe(fileDalName, "next_ticket_id", fileBackend, fileActiveTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	var highest int64
	for _, doc := range []ticketDocument{s.active, s.closed} {
		for id := range doc[guildID] {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				continue
			}
			if n > highest {
				highest = n
			}
		}
	}

	return strconv.FormatInt(highest+1, 10), nil
}

func (s *FileStore) SaveTicket(_ context.Context, ticket *entities.Ticket) error {
	defer monitoring.Observe(fileDalName, "save_ticket", fileBackend, fileActiveTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, ok := s.active[ticket.GuildID]
	if !ok {
		tickets = make(map[string]*entities.Ticket)
		s.active[ticket.GuildID] = tickets
	}

	prev, existed := tickets[ticket.ID]
	tickets[ticket.ID] = copyTicket(ticket)
	if err := s.write(fileActiveTickets, s.active); err != nil {
		if existed {
			tickets[ticket.ID] = prev
		} else {
			delete(tickets, ticket.ID)
		}
		return err
	}
	return nil
}

func (s *FileStore) GetTicketByChannel(_ context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer monitoring.Observe(fileDalName, "get_ticket_by_channel", fileBackend, fileActiveTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	return findByChannel(s.active, guildID, channelID)
}

func (s *FileStore) GetClosedTicketByChannel(_ context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer monitoring.Observe(fileDalName, "get_closed_ticket_by_channel", fileBackend, fileClosedTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	return findByChannel(s.closed, guildID, channelID)
}

func findByChannel(doc ticketDocument, guildID, channelID string) (*entities.Ticket, error) {
	for _, t := range doc[guildID] {
		if t.ChannelID == channelID {
			return copyTicket(t), nil
		}
	}
	return nil, fmt.Errorf("error getting ticket for channel %s: %w", channelID, ErrNotFound)
}

func (s *FileStore) ListUserTickets(_ context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	defer monitoring.Observe(fileDalName, "list_user_tickets", fileBackend, fileActiveTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := make([]*entities.Ticket, 0)
	for _, t := range s.active[guildID] {
		if t.UserID == userID {
			tickets = append(tickets, copyTicket(t))
		}
	}

	sort.Slice(tickets, func(i, j int) bool {
		ti, tj := tickets[i].CreatedAt.Time(), tickets[j].CreatedAt.Time()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		if len(tickets[i].ID) != len(tickets[j].ID) {
			return len(tickets[i].ID) < len(tickets[j].ID)
		}
		return tickets[i].ID < tickets[j].ID
	})
	return tickets, nil
}

func (s *FileStore) CloseTicket(_ context.Context, ticket *entities.Ticket) error {
	defer monitoring.Observe(fileDalName, "close_ticket", fileBackend, fileClosedTickets)()

	s.mu.Lock()
	defer s.mu.Unlock()

	closed, ok := s.closed[ticket.GuildID]
	if !ok {
		closed = make(map[string]*entities.Ticket)
		s.closed[ticket.GuildID] = closed
	}

	prevClosed, hadClosed := closed[ticket.ID]
	closed[ticket.ID] = copyTicket(ticket)
	if err := s.write(fileClosedTickets, s.closed); err != nil {
		if hadClosed {
			closed[ticket.ID] = prevClosed
		} else {
			delete(closed, ticket.ID)
		}
		return err
	}

	active := s.active[ticket.GuildID]
	prevActive, hadActive := active[ticket.ID]
	if !hadActive {
		return nil
	}

	delete(active, ticket.ID)
	if err := s.write(fileActiveTickets, s.active); err != nil {
		// The closed document already holds the ticket, so a retry only has to repeat this write.
		active[ticket.ID] = prevActive
		return err
	}
	return nil
}

func (s *FileStore) CountTickets(_ context.Context, guildID string) (*entities.TicketCounts, error) {
	defer monitoring.Observe(fileDalName, "count_tickets", fileBackend, "-")()

	s.mu.Lock()
	defer s.mu.Unlock()

	count := func(doc ticketDocument) int64 {
		if guildID != "" {
			return int64(len(doc[guildID]))
		}
		var n int64
		for _, tickets := range doc {
			n += int64(len(tickets))
		}
		return n
	}

	return &entities.TicketCounts{
		Open:   count(s.active),
		Closed: count(s.closed),
	}, nil
}

// Ping checks that the data directory is still writable.
func (s *FileStore) Ping(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping.*")
	if err != nil {
		return fmt.Errorf("data directory is not writable: %w", err)
	}
	f.Close()
	return os.Remove(f.Name())
}

func copyGuild(g *entities.Guild) *entities.Guild {
	c := *g
	c.Ticketing.Categories = append([]entities.Category(nil), g.Ticketing.Categories...)
	c.Ticketing.StaffRoleIDs = append([]string(nil), g.Ticketing.StaffRoleIDs...)
	return &c
}

func copyTicket(t *entities.Ticket) *entities.Ticket {
	c := *t
	if t.ClosedAt != nil {
		closedAt := *t.ClosedAt
		c.ClosedAt = &closedAt
	}
	return &c
}
