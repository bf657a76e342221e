package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/application/contracts"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/metrics"
)

const reasonMissingIdentifiers = "missing invoice_id or customer_email"

// CompletionNotifier forwards payment completion to the downstream notifier.
// Delivery is best effort: one attempt, no retry, and failures are reported
// as false rather than as errors.
type CompletionNotifier struct {
	Sender   contracts.NotificationSender
	EventBus contracts.EventPublisher
	Ledger   delivery.Repository
	Logger   logging.Logger
	Metrics  *metrics.Counters

	// Dedup suppresses the outbound call when the ledger already holds a
	// successful delivery for the same session.
	Dedup bool
}

func (n *CompletionNotifier) Notify(ctx context.Context, note checkout.CompletionNotification, trigger checkout.Trigger) bool {
	deliveryID := uuid.NewString()
	fields := map[string]any{
		"delivery_id":    deliveryID,
		"trigger":        string(trigger),
		"invoice_id":     note.InvoiceID,
		"customer_email": note.CustomerEmail,
		"session_id":     note.SessionID,
		"amount_paid":    checkout.FromMinorUnits(note.AmountPaid).String(),
	}

	if !note.Complete() {
		n.Logger.Error("notification skipped: "+reasonMissingIdentifiers, fields)
		n.Metrics.IncSkipped()
		n.publish(event.NotificationSkipped, deliveryID, note, trigger, reasonMissingIdentifiers)
		return false
	}

	if n.Dedup && n.alreadyDelivered(ctx, note.SessionID, fields) {
		n.Logger.Info("notification already delivered for session", fields)
		n.Metrics.IncDeduplicated()
		return true
	}

	n.Logger.Info("sending completion notification", fields)

	if err := n.Sender.Send(ctx, note); err != nil {
		fields["error"] = err
		n.Logger.Error("failed to notify downstream of payment success", fields)
		n.Metrics.IncFailed()
		n.publish(event.NotificationFailed, deliveryID, note, trigger, err.Error())
		return false
	}

	n.Logger.Info("downstream notified of payment success", fields)
	n.Metrics.IncDelivered()
	n.publish(event.NotificationDelivered, deliveryID, note, trigger, "")
	return true
}

func (n *CompletionNotifier) alreadyDelivered(ctx context.Context, sessionID string, fields map[string]any) bool {
	if n.Ledger == nil {
		return false
	}

	prior, err := n.Ledger.FindDelivered(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, delivery.ErrDeliveryNotFound) {
			n.Logger.Warn("delivery ledger lookup failed", map[string]any{
				"session_id": sessionID,
				"error":      err,
			})
		}
		return false
	}

	fields["prior_delivery_id"] = prior.ID
	return true
}

func (n *CompletionNotifier) publish(t event.Type, deliveryID string, note checkout.CompletionNotification, trigger checkout.Trigger, reason string) {
	if n.EventBus == nil {
		return
	}

	err := n.EventBus.Publish(event.Event{
		Type: t,
		Payload: event.NotificationPayload{
			DeliveryID:    deliveryID,
			InvoiceID:     note.InvoiceID,
			CustomerEmail: note.CustomerEmail,
			SessionID:     note.SessionID,
			AmountPaid:    note.AmountPaid,
			Trigger:       trigger,
			Reason:        reason,
		},
	})
	if err != nil {
		n.Logger.Warn("notification event not published", map[string]any{
			"delivery_id": deliveryID,
			"event":       string(t),
			"error":       err,
		})
	}
}
