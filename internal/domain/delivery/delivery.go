package delivery

import (
	"time"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
)

type Status string

const (
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
	StatusSkipped   Status = "SKIPPED"
)

// Delivery is one Completion Notifier invocation as recorded in the ledger.
// AmountPaid is in minor units.
type Delivery struct {
	ID            string
	SessionID     string
	InvoiceID     string
	CustomerEmail string
	AmountPaid    int64
	Trigger       checkout.Trigger
	Status        Status
	Reason        string
	AttemptedAt   time.Time
}
