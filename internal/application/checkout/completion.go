package checkout

import (
	"context"
	"strings"

	domainCheckout "github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
)

// Verification is the outcome of re-checking a session with the processor.
// Attempted reports whether the Completion Notifier was invoked, Notified
// whether it reported success.
type Verification struct {
	Session   *domainCheckout.Session
	Attempted bool
	Notified  bool
}

// Complete re-fetches the session and, when it is paid, notifies the
// downstream server using the processor's amount. Unpaid sessions return
// ErrPaymentNotCompleted and never notify.
//
// On the verification trigger the identifiers are optional and the notifier
// is only invoked when both are present.
func (s *Service) Complete(ctx context.Context, sessionID string, id domainCheckout.Identity, trigger domainCheckout.Trigger) (*Verification, error) {
	if sessionID == "" {
		return nil, domainCheckout.ErrMissingSessionID
	}

	sess, err := s.Processor.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.Logger.Error("session retrieval failed", map[string]any{
			"session_id": sessionID,
			"trigger":    string(trigger),
			"error":      err,
		})
		return nil, asProcessorError(err)
	}

	v := &Verification{Session: sess}

	if !sess.Paid() {
		s.Logger.Info("session not paid", map[string]any{
			"session_id":     sessionID,
			"payment_status": string(sess.PaymentStatus),
			"trigger":        string(trigger),
		})
		return v, domainCheckout.ErrPaymentNotCompleted
	}

	fields := map[string]any{
		"session_id":     sess.ID,
		"invoice_id":     id.InvoiceID,
		"customer_email": id.CustomerEmail,
		"trigger":        string(trigger),
	}

	if trigger == domainCheckout.TriggerVerification && (id.InvoiceID == "" || id.CustomerEmail == "") {
		s.Logger.Info("payment verified without invoice identifiers, not notifying", fields)
		return v, nil
	}

	if err := matchMetadata(sess, id); err != nil {
		fields["metadata_invoice_id"] = sess.Metadata[domainCheckout.MetadataInvoiceID]
		s.Logger.Error("caller identifiers contradict session metadata, not notifying", fields)
		return v, nil
	}

	s.Logger.Info("payment verified as paid, notifying downstream", fields)

	v.Attempted = true
	v.Notified = s.Notifier.Notify(ctx, domainCheckout.NewCompletionNotification(sess, id), trigger)
	return v, nil
}

// matchMetadata rejects caller identifiers that disagree with what was
// attached to the session at creation time. Sessions created without
// metadata cannot be checked and pass.
func matchMetadata(sess *domainCheckout.Session, id domainCheckout.Identity) error {
	if want := sess.Metadata[domainCheckout.MetadataInvoiceID]; want != "" && id.InvoiceID != "" && want != id.InvoiceID {
		return domainCheckout.ErrIdentityMismatch
	}
	if want := sess.Metadata[domainCheckout.MetadataCustomerEmail]; want != "" && id.CustomerEmail != "" && !strings.EqualFold(want, id.CustomerEmail) {
		return domainCheckout.ErrIdentityMismatch
	}
	return nil
}
