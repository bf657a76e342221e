package checkout

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusNoPaymentRequired PaymentStatus = "no_payment_required"
)

type Trigger string

const (
	TriggerRedirect     Trigger = "redirect"
	TriggerVerification Trigger = "verification"
	TriggerWebhook      Trigger = "webhook"
)

// Metadata keys the relay reads back from a session.
const (
	MetadataInvoiceID     = "invoice_id"
	MetadataCustomerEmail = "customer_email"
)

type CheckoutRequest struct {
	Amount        decimal.Decimal
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the relay's read-only view of a processor checkout session.
// AmountTotal is in minor units.
type Session struct {
	ID            string
	URL           string
	PaymentStatus PaymentStatus
	CustomerEmail string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Identity holds the invoice identifiers a trigger supplies for notification.
type Identity struct {
	InvoiceID     string
	CustomerEmail string
}

type CompletionNotification struct {
	InvoiceID     string
	CustomerEmail string
	SessionID     string
	AmountPaid    int64
}

func (n CompletionNotification) Complete() bool {
	return n.InvoiceID != "" && n.CustomerEmail != ""
}

func NewCompletionNotification(s *Session, id Identity) CompletionNotification {
	return CompletionNotification{
		InvoiceID:     id.InvoiceID,
		CustomerEmail: id.CustomerEmail,
		SessionID:     s.ID,
		AmountPaid:    s.AmountTotal,
	}
}
