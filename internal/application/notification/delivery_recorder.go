package notification

import (
	"context"
	"errors"
	"time"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
)

// DeliveryRecorder writes notification outcomes to the delivery ledger.
type DeliveryRecorder struct {
	Repo delivery.Repository
	Now  func() time.Time
}

func (h *DeliveryRecorder) Handle(evt event.Event) error {
	payload, ok := evt.Payload.(event.NotificationPayload)
	if !ok {
		return errors.New("invalid payload for notification event")
	}

	var status delivery.Status
	switch evt.Type {
	case event.NotificationDelivered:
		status = delivery.StatusDelivered
	case event.NotificationFailed:
		status = delivery.StatusFailed
	case event.NotificationSkipped:
		status = delivery.StatusSkipped
	default:
		return nil
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	return h.Repo.Save(context.Background(), &delivery.Delivery{
		ID:            payload.DeliveryID,
		SessionID:     payload.SessionID,
		InvoiceID:     payload.InvoiceID,
		CustomerEmail: payload.CustomerEmail,
		AmountPaid:    payload.AmountPaid,
		Trigger:       payload.Trigger,
		Status:        status,
		Reason:        payload.Reason,
		AttemptedAt:   now().UTC(),
	})
}
