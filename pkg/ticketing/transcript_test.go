package ticketing

import (
	"strings"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestRenderTranscript(t *testing.T) {
	opened := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tk := &entities.Ticket{
		ID:           "7",
		UserID:       "1234",
		Username:     "alice",
		CategoryID:   "support",
		CategoryName: "Support",
		CreatedAt:    custom.Datetime(opened),
	}

	// Newest first, as the platform returns them.
	msgs := []*discordgo.Message{
		{
			Author:      &discordgo.User{Username: "staff"},
			Content:     "see attached",
			Timestamp:   opened.Add(2 * time.Minute),
			Embeds:      []*discordgo.MessageEmbed{{Title: "a"}, {Title: "b"}},
			Attachments: []*discordgo.MessageAttachment{{Filename: "log.txt"}},
		},
		nil,
		{
			Content:   "hello",
			Timestamp: opened.Add(time.Minute),
		},
	}

	got := RenderTranscript(tk, msgs)

	require.True(t, strings.HasPrefix(got, "Transcript of ticket #7 (ticket-1234-support-7)\n"))
	require.Contains(t, got, "Messages: 3\n\n")

	lines := strings.Split(strings.TrimSpace(got[strings.Index(got, "\n\n")+2:]), "\n")
	require.Equal(t, []string{
		"[2024-03-01 12:01:00] unknown: hello (0 embeds, 0 attachments)",
		"[2024-03-01 12:02:00] staff: see attached (2 embeds, 1 attachments)",
	}, lines)
}
