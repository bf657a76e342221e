package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainCheckout "github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
)

var ErrMalformedEvent = errors.New("malformed webhook event")

// HandleWebhook acts on checkout.session.completed and acknowledges every
// other event type. Only a malformed envelope returns an error; a missing
// invoice id or email is a logged skip.
func (s *Service) HandleWebhook(ctx context.Context, evt event.WebhookEvent) error {
	s.Metrics.IncWebhooksReceived()

	if evt.Type != event.EventCheckoutSessionCompleted {
		s.Metrics.IncWebhooksIgnored()
		s.Logger.Info("webhook event ignored", map[string]any{
			"event_id":   evt.ID,
			"event_type": evt.Type,
		})
		return nil
	}

	var obj event.SessionObject
	if len(evt.Data.Object) == 0 {
		return fmt.Errorf("%w: missing data.object", ErrMalformedEvent)
	}
	if err := json.Unmarshal(evt.Data.Object, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if obj.ID == "" {
		return fmt.Errorf("%w: missing session id", ErrMalformedEvent)
	}

	sess := sessionFromObject(obj)
	id := domainCheckout.Identity{
		InvoiceID:     obj.Metadata[domainCheckout.MetadataInvoiceID],
		CustomerEmail: sess.CustomerEmail,
	}

	s.Logger.Info("payment completed for session", map[string]any{
		"event_id":       evt.ID,
		"session_id":     sess.ID,
		"invoice_id":     id.InvoiceID,
		"customer_email": id.CustomerEmail,
	})

	s.Notifier.Notify(ctx, domainCheckout.NewCompletionNotification(sess, id), domainCheckout.TriggerWebhook)
	return nil
}

func sessionFromObject(obj event.SessionObject) *domainCheckout.Session {
	email := obj.CustomerEmail
	if email == "" {
		email = obj.Metadata[domainCheckout.MetadataCustomerEmail]
	}
	if email == "" && obj.CustomerDetails != nil {
		email = obj.CustomerDetails.Email
	}

	return &domainCheckout.Session{
		ID:            obj.ID,
		PaymentStatus: domainCheckout.PaymentStatus(obj.PaymentStatus),
		CustomerEmail: email,
		AmountTotal:   obj.AmountTotal,
		Currency:      obj.Currency,
		Metadata:      obj.Metadata,
	}
}
