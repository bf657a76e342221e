package event

import "github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"

type NotificationPayload struct {
	DeliveryID    string
	InvoiceID     string
	CustomerEmail string
	SessionID     string
	AmountPaid    int64
	Trigger       checkout.Trigger
	Reason        string
}
