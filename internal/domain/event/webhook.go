package event

import "encoding/json"

const EventCheckoutSessionCompleted = "checkout.session.completed"

// WebhookEvent is the envelope a payment processor pushes to the relay.
type WebhookEvent struct {
	ID   string      `json:"id,omitempty"`
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	Object json.RawMessage `json:"object"`
}

// SessionObject is the subset of a checkout session carried by
// checkout.session.* events.
type SessionObject struct {
	ID              string            `json:"id"`
	PaymentStatus   string            `json:"payment_status"`
	CustomerEmail   string            `json:"customer_email"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}
