package eventbus

import (
	"errors"
	"sync"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
)

type HandlerFunc func(event.Event) error

// InMemoryBus delivers events synchronously on the publisher's goroutine.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[event.Type][]HandlerFunc),
	}
}

func (b *InMemoryBus) Subscribe(handler HandlerFunc, eventTypes ...event.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

// Publish runs every subscriber for the event type, even when an earlier one
// fails, and returns the joined errors.
func (b *InMemoryBus) Publish(evt event.Event) error {
	b.mu.RLock()
	handlers := append([]HandlerFunc(nil), b.handlers[evt.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(evt); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
