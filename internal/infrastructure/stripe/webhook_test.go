package stripe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/stripe"
)

const testSecret = "whsec_test_relay"

var completedPayload = []byte(`{
	"id": "evt_1",
	"object": "event",
	"type": "checkout.session.completed",
	"data": {"object": {"id": "cs_2", "object": "checkout.session", "amount_total": 1000}}
}`)

func TestWebhookVerifier_AcceptsValidSignature(t *testing.T) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   completedPayload,
		Secret:    testSecret,
		Timestamp: time.Now(),
	})

	v := stripe.NewWebhookVerifier(testSecret)
	require.NoError(t, v.Verify(signed.Payload, signed.Header))
}

func TestWebhookVerifier_RejectsWrongSecret(t *testing.T) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   completedPayload,
		Secret:    "whsec_other",
		Timestamp: time.Now(),
	})

	v := stripe.NewWebhookVerifier(testSecret)
	require.Error(t, v.Verify(signed.Payload, signed.Header))
}

func TestWebhookVerifier_RejectsMissingHeader(t *testing.T) {
	v := stripe.NewWebhookVerifier(testSecret)
	require.Error(t, v.Verify(completedPayload, ""))
}

func TestWebhookVerifier_RejectsStaleTimestamp(t *testing.T) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   completedPayload,
		Secret:    testSecret,
		Timestamp: time.Now().Add(-time.Hour),
	})

	v := stripe.NewWebhookVerifier(testSecret)
	require.Error(t, v.Verify(signed.Payload, signed.Header))
}
