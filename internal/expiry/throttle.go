package expiry

import (
	"sync"
	"time"
)

// DefaultNotifyInterval is the minimum time between two expiring events for
// the same product.
const DefaultNotifyInterval = 6 * time.Hour

// Throttle remembers when each product was last notified.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
}

// NewThrottle creates a throttle allowing one notification per product per
// interval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultNotifyInterval
	}
	return &Throttle{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether productID may be notified at now, and if so records
// the notification.
func (t *Throttle) Allow(productID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.last[productID]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[productID] = now
	return true
}

// Forget drops the record of productID.
func (t *Throttle) Forget(productID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, productID)
}

// Retain drops every record whose product is not in keep.
func (t *Throttle) Retain(keep func(productID string) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.last {
		if !keep(id) {
			delete(t.last, id)
		}
	}
}

// Reset drops every record.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = make(map[string]time.Time)
}
