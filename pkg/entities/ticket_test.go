package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in     string
		want   Priority
		wantOk bool
	}{
		{in: "low", want: PriorityLow, wantOk: true},
		{in: "Normal", want: PriorityNormal, wantOk: true},
		{in: " HIGH ", want: PriorityHigh, wantOk: true},
		{in: "critical", want: PriorityCritical, wantOk: true},
		{in: "urgent", want: "", wantOk: false},
		{in: "", want: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePriority(tt.in)
			require.Equal(t, tt.wantOk, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTicket_Name(t *testing.T) {
	tk := &Ticket{ID: "7", UserID: "1234", CategoryID: "billing-help"}
	require.Equal(t, "ticket-1234-billing-help-7", tk.Name())
}

func TestTicketingConfig_Limit(t *testing.T) {
	require.Equal(t, DefaultMaxTicketsPerUser, (&TicketingConfig{}).Limit())
	require.Equal(t, 1, (&TicketingConfig{MaxTicketsPerUser: 1}).Limit())
	require.Equal(t, 5, (&TicketingConfig{MaxTicketsPerUser: 5}).Limit())
	require.Equal(t, DefaultMaxTicketsPerUser, (&TicketingConfig{MaxTicketsPerUser: 9}).Limit())
}
