package checkout

import (
	"context"
	"errors"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/application/contracts"
	domainCheckout "github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/metrics"
)

const defaultDescription = "Invoice Payment"

// Notifier is the Completion Notifier as seen by the triggers.
type Notifier interface {
	Notify(context.Context, domainCheckout.CompletionNotification, domainCheckout.Trigger) bool
}

type SessionDefaults struct {
	SuccessURL string
	CancelURL  string
}

type Service struct {
	Processor contracts.Processor
	Notifier  Notifier
	Logger    logging.Logger
	Metrics   *metrics.Counters
	Defaults  SessionDefaults
}

// CreateSession asks the processor for a hosted checkout session and returns
// its redirect URL. Input is not validated here; the processor's rejection is
// returned as a *ProcessorError.
func (s *Service) CreateSession(ctx context.Context, req domainCheckout.CheckoutRequest) (string, error) {
	if req.Description == "" {
		req.Description = defaultDescription
	}
	if req.SuccessURL == "" {
		req.SuccessURL = s.Defaults.SuccessURL
	}
	if req.CancelURL == "" {
		req.CancelURL = s.Defaults.CancelURL
	}

	sess, err := s.Processor.CreateSession(ctx, req)
	if err != nil {
		s.Logger.Error("checkout session creation failed", map[string]any{
			"customer_email": req.CustomerEmail,
			"amount":         req.Amount.String(),
			"error":          err,
		})
		return "", asProcessorError(err)
	}

	s.Metrics.IncSessionsCreated()
	s.Logger.Info("checkout session created", map[string]any{
		"session_id":     sess.ID,
		"customer_email": req.CustomerEmail,
		"amount_minor":   domainCheckout.ToMinorUnits(req.Amount),
	})

	return sess.URL, nil
}

func asProcessorError(err error) error {
	var pe *domainCheckout.ProcessorError
	if errors.As(err, &pe) {
		return err
	}
	return &domainCheckout.ProcessorError{Message: err.Error(), Err: err}
}
