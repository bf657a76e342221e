package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/application/checkout"
	domainCheckout "github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/stripe"
)

const maxWebhookBytes = 1 << 16

// WebhookVerifier authenticates a raw webhook body against its signature
// header.
type WebhookVerifier interface {
	Verify(payload []byte, signature string) error
}

type CheckoutHandler struct {
	Service *checkout.Service
	// Verifier is nil when no signing secret is configured.
	Verifier    WebhookVerifier
	Logger      logging.Logger
	ServerName  string
	NotifierURL string
	Now         func() time.Time
}

type CreateCheckoutSessionRequest struct {
	Amount        decimal.Decimal   `json:"amount"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata"`
}

type VerifyPaymentRequest struct {
	SessionID     string `json:"session_id"`
	InvoiceID     string `json:"invoice_id"`
	CustomerEmail string `json:"customer_email"`
}

type verifyPaymentResponse struct {
	Status        string      `json:"status"`
	Message       string      `json:"message"`
	PaymentStatus string      `json:"payment_status"`
	CustomerEmail string      `json:"customer_email"`
	AmountTotal   json.Number `json:"amount_total"`
}

type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	url, err := h.Service.CreateSession(r.Context(), domainCheckout.CheckoutRequest{
		Amount:        req.Amount,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusMessage{Status: "error", Message: "invalid request body"})
		return
	}

	v, err := h.Service.Complete(r.Context(), req.SessionID, domainCheckout.Identity{
		InvoiceID:     req.InvoiceID,
		CustomerEmail: req.CustomerEmail,
	}, domainCheckout.TriggerVerification)
	if errors.Is(err, domainCheckout.ErrPaymentNotCompleted) {
		writeJSON(w, http.StatusBadRequest, statusMessage{Status: "error", Message: "Payment not completed"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusMessage{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Status:        "success",
		Message:       "Payment verified successfully",
		PaymentStatus: string(v.Session.PaymentStatus),
		CustomerEmail: v.Session.CustomerEmail,
		AmountTotal:   json.Number(domainCheckout.FromMinorUnits(v.Session.AmountTotal).String()),
	})
}

// Success is the redirect landing page. The page reports success whenever the
// processor says the session is paid, even if the downstream notification
// failed.
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := domainCheckout.Identity{
		InvoiceID:     q.Get("invoice_id"),
		CustomerEmail: q.Get("customer_email"),
	}

	v, err := h.Service.Complete(r.Context(), q.Get("session_id"), id, domainCheckout.TriggerRedirect)
	if errors.Is(err, domainCheckout.ErrPaymentNotCompleted) {
		writeText(w, http.StatusBadRequest, "Payment not completed")
		return
	}
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error processing payment")
		return
	}

	h.render(w, successPage, successPageData{
		CustomerEmail: id.CustomerEmail,
		Delayed:       !v.Notified,
	})
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.render(w, cancelPage, nil)
}

// Webhook acknowledges every well-formed event. Only an unreadable body, a
// bad signature, or an undecodable envelope is answered with 400.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.webhookError(w, r, "read webhook body", err)
		return
	}

	if h.Verifier != nil {
		if err := h.Verifier.Verify(body, r.Header.Get(stripe.SignatureHeader)); err != nil {
			h.webhookError(w, r, "webhook signature rejected", err)
			return
		}
	}

	var evt event.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		h.webhookError(w, r, "decode webhook event", err)
		return
	}

	if err := h.Service.HandleWebhook(r.Context(), evt); err != nil {
		h.webhookError(w, r, "webhook event rejected", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *CheckoutHandler) webhookError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.Logger.Error(msg, map[string]any{
		"request_id": GetRequestID(r.Context()),
		"error":      err,
	})
	writeText(w, http.StatusBadRequest, "Webhook Error")
}

func (h *CheckoutHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":             "healthy",
		"server":             h.ServerName,
		"flutter_server_url": h.NotifierURL,
		"timestamp":          now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
