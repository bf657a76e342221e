package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
)

const successPath = "/handle-payment-success"

// maxLoggedBody bounds how much of the downstream response is logged.
const maxLoggedBody = 4096

type paymentSuccessRequest struct {
	InvoiceID     string      `json:"invoice_id"`
	CustomerEmail string      `json:"customer_email"`
	SessionID     string      `json:"session_id"`
	AmountPaid    json.Number `json:"amount_paid"`
}

// StatusError reports a non-2xx answer from the downstream notifier.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notifier responded %d: %s", e.StatusCode, e.Body)
}

// HTTPClient posts completion notifications to the downstream application
// server.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
	Logger  logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *HTTPClient) Send(ctx context.Context, n checkout.CompletionNotification) error {
	body, err := json.Marshal(paymentSuccessRequest{
		InvoiceID:     n.InvoiceID,
		CustomerEmail: n.CustomerEmail,
		SessionID:     n.SessionID,
		AmountPaid:    json.Number(checkout.FromMinorUnits(n.AmountPaid).String()),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+successPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("call notifier: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))

	c.Logger.Info("notifier response", map[string]any{
		"session_id": n.SessionID,
		"status":     resp.StatusCode,
		"body":       string(raw),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return nil
}
