package ticketing

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

// transcriptLimit is the number of recent messages included in a transcript.
const transcriptLimit = 100

const transcriptTimeLayout = "2006-01-02 15:04:05"

// RenderTranscript renders messages, given newest first as the platform returns them, as plain
// text in chronological order.
func RenderTranscript(t *entities.Ticket, msgs []*discordgo.Message) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Transcript of ticket #%s (%s)\n", t.ID, t.Name()))
	sb.WriteString(fmt.Sprintf("Category: %s\n", t.CategoryName))
	sb.WriteString(fmt.Sprintf("Opened by: %s (%s) at %s\n", t.Username, t.UserID, t.CreatedAt.Time().UTC().Format(transcriptTimeLayout)))
	sb.WriteString(fmt.Sprintf("Messages: %d\n\n", len(msgs)))

	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}

		author := "unknown"
		if m.Author != nil {
			author = m.Author.Username
		}

		sb.WriteString(fmt.Sprintf("[%s] %s: %s (%d embeds, %d attachments)\n",
			m.Timestamp.UTC().Format(transcriptTimeLayout), author, m.Content, len(m.Embeds), len(m.Attachments)))
	}

	return sb.String()
}
