package metrics

import "sync/atomic"

// Counters is safe to use through a nil pointer; increments are then dropped.
type Counters struct {
	SessionsCreated           uint64
	NotificationsDelivered    uint64
	NotificationsFailed       uint64
	NotificationsSkipped      uint64
	NotificationsDeduplicated uint64
	WebhooksReceived          uint64
	WebhooksIgnored           uint64
}

func (c *Counters) IncSessionsCreated() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.SessionsCreated, 1)
}

func (c *Counters) IncDelivered() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.NotificationsDelivered, 1)
}

func (c *Counters) IncFailed() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.NotificationsFailed, 1)
}

func (c *Counters) IncSkipped() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.NotificationsSkipped, 1)
}

func (c *Counters) IncDeduplicated() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.NotificationsDeduplicated, 1)
}

func (c *Counters) IncWebhooksReceived() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.WebhooksReceived, 1)
}

func (c *Counters) IncWebhooksIgnored() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.WebhooksIgnored, 1)
}

func load(p *uint64) float64 {
	return float64(atomic.LoadUint64(p))
}
