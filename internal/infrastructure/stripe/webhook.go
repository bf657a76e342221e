package stripe

import (
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
)

// WebhookVerifier checks the Stripe-Signature header of webhook deliveries.
type WebhookVerifier struct {
	Secret    string
	Tolerance time.Duration
}

const SignatureHeader = "Stripe-Signature"

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{Secret: secret, Tolerance: webhook.DefaultTolerance}
}

func (v *WebhookVerifier) Verify(payload []byte, signature string) error {
	_, err := webhook.ConstructEventWithOptions(payload, signature, v.Secret, webhook.ConstructEventOptions{
		Tolerance:                v.Tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	return err
}
