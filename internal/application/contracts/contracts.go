package contracts

import (
	"context"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
)

type SessionCreator interface {
	CreateSession(context.Context, checkout.CheckoutRequest) (*checkout.Session, error)
}

type SessionRetriever interface {
	RetrieveSession(ctx context.Context, sessionID string) (*checkout.Session, error)
}

// Processor is the payment processor capability set the relay depends on.
type Processor interface {
	SessionCreator
	SessionRetriever
}

// NotificationSender performs one outbound call to the downstream notifier.
// A nil error means the notifier answered with a 2xx status.
type NotificationSender interface {
	Send(context.Context, checkout.CompletionNotification) error
}

type EventPublisher interface {
	Publish(event.Event) error
}
