// Package cost tracks session spend as a read-through cache of the backend's accounting.
package cost

import (
	"context"
	"log"
	"sync"

	"github.com/jonathan/resume-studio/internal/backend"
)

// ZeroDisplay is the formatted spend before the first successful refresh.
const ZeroDisplay = "$0.00"

// Ledger mirrors the server-computed running spend. There is no local
// accumulation: the backend is the source of truth and the ledger refreshes
// after every completed pipeline stage and after a successful credential test.
type Ledger struct {
	client backend.Client

	mu      sync.Mutex
	total   float64
	display string
}

// New creates an empty ledger backed by the given client.
func New(client backend.Client) *Ledger {
	return &Ledger{client: client, display: ZeroDisplay}
}

// Refresh fetches the current spend from the backend. A fetch failure is
// logged and leaves the previous values in place.
func (l *Ledger) Refresh(ctx context.Context) (total float64, display string) {
	cost, err := l.client.GetCost(ctx)
	if err != nil {
		log.Printf("cost refresh failed: %v", err)
		return l.Snapshot()
	}

	l.mu.Lock()
	l.total = cost.Total
	l.display = cost.Display
	l.mu.Unlock()
	return cost.Total, cost.Display
}

// Snapshot returns the last refreshed total and display string.
func (l *Ledger) Snapshot() (total float64, display string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total, l.display
}

// Total returns the last refreshed total.
func (l *Ledger) Total() float64 {
	total, _ := l.Snapshot()
	return total
}

// Display returns the last refreshed display string.
func (l *Ledger) Display() string {
	_, display := l.Snapshot()
	return display
}

// Reset zeroes the ledger. Only an explicit reset may decrease the total.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.total = 0
	l.display = ZeroDisplay
	l.mu.Unlock()
}
