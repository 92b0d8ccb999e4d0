package ticketing

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedUsers bounds the limiter map before idle entries are pruned.
const maxTrackedUsers = 10000

// creationLimiter throttles how fast a single user can open tickets.
type creationLimiter struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newCreationLimiter(every rate.Limit, burst int) *creationLimiter {
	return &creationLimiter{
		every:    every,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Reserve takes a token for the user at now. It reports false when the user has to wait, and
// otherwise returns a function that gives the token back if the ticket could not be opened.
func (c *creationLimiter) Reserve(guildID, userID string, now time.Time) (func(), bool) {
	if c == nil || c.every == rate.Inf {
		return func() {}, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := guildID + ":" + userID
	l, ok := c.limiters[key]
	if !ok {
		if len(c.limiters) >= maxTrackedUsers {
			c.prune(now)
		}
		l = rate.NewLimiter(c.every, c.burst)
		c.limiters[key] = l
	}

	r := l.ReserveN(now, 1)
	if !r.OK() {
		return nil, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	return func() { r.CancelAt(now) }, true
}

// prune drops limiters that have refilled completely, they behave the same as new ones.
func (c *creationLimiter) prune(now time.Time) {
	for key, l := range c.limiters {
		if l.TokensAt(now) >= float64(c.burst) {
			delete(c.limiters, key)
		}
	}
}
