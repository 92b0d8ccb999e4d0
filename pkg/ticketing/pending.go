package ticketing

import (
	"sync"
	"time"
)

// pendingClose is a close request waiting for confirmation.
type pendingClose struct {
	RequestedBy string
	Reason      string
	Expires     time.Time
}

// pendingCloses tracks close confirmations per ticket channel.
type pendingCloses struct {
	mu      sync.Mutex
	pending map[string]pendingClose
}

func newPendingCloses() *pendingCloses {
	return &pendingCloses{
		pending: make(map[string]pendingClose),
	}
}

func (p *pendingCloses) Put(channelID string, pc pendingClose) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[channelID] = pc
}

// Get returns the confirmation for the channel if it has not expired at now. Expired entries are dropped.
func (p *pendingCloses) Get(channelID string, now time.Time) (pendingClose, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pc, ok := p.pending[channelID]
	if !ok {
		return pendingClose{}, false
	}
	if !now.Before(pc.Expires) {
		delete(p.pending, channelID)
		return pendingClose{}, false
	}
	return pc, true
}

// Delete removes the confirmation and reports whether one was pending.
func (p *pendingCloses) Delete(channelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.pending[channelID]
	delete(p.pending, channelID)
	return ok
}
