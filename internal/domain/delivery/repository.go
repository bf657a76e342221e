package delivery

import (
	"context"
	"errors"
)

var ErrDeliveryNotFound = errors.New("delivery not found")

type Repository interface {
	Save(context.Context, *Delivery) error
	// FindDelivered returns the first successful delivery for a session, or
	// ErrDeliveryNotFound.
	FindDelivered(ctx context.Context, sessionID string) (*Delivery, error)
	ListBySession(ctx context.Context, sessionID string) ([]Delivery, error)
}
