package ticketing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func reserve(l *creationLimiter, guildID, userID string, now time.Time) bool {
	_, ok := l.Reserve(guildID, userID, now)
	return ok
}

func TestCreationLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newCreationLimiter(rate.Every(10*time.Second), 2)

	require.True(t, reserve(l, "g1", "u1", now))
	require.True(t, reserve(l, "g1", "u1", now))
	require.False(t, reserve(l, "g1", "u1", now))

	// Other users and guilds have their own budget.
	require.True(t, reserve(l, "g1", "u2", now))
	require.True(t, reserve(l, "g2", "u1", now))

	require.True(t, reserve(l, "g1", "u1", now.Add(10*time.Second)))
}

func TestCreationLimiter_Refund(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newCreationLimiter(rate.Every(10*time.Second), 1)

	refund, ok := l.Reserve("g1", "u1", now)
	require.True(t, ok)
	require.False(t, reserve(l, "g1", "u1", now))

	refund()
	require.True(t, reserve(l, "g1", "u1", now))
	require.False(t, reserve(l, "g1", "u1", now))
}

func TestCreationLimiter_Unlimited(t *testing.T) {
	now := time.Now()
	l := newCreationLimiter(rate.Inf, 0)
	for i := 0; i < 10; i++ {
		require.True(t, reserve(l, "g1", "u1", now))
	}

	var nilLimiter *creationLimiter
	refund, ok := nilLimiter.Reserve("g1", "u1", now)
	require.True(t, ok)
	refund()
}
