package stripe

import (
	"context"
	"errors"
	"net/http"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
)

const paymentMethodCard = "card"

type Options struct {
	SecretKey string
	Currency  string
	// APIURL overrides the Stripe API base URL (stripe-mock, tests).
	APIURL     string
	HTTPClient *http.Client
}

// Processor creates and reads Stripe Checkout sessions.
type Processor struct {
	api      *client.API
	currency string
}

func NewProcessor(opts Options) *Processor {
	cfg := &stripego.BackendConfig{
		// the relay never retries processor calls
		MaxNetworkRetries: stripego.Int64(0),
	}
	if opts.APIURL != "" {
		cfg.URL = stripego.String(opts.APIURL)
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	api := &client.API{}
	api.Init(opts.SecretKey, &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, cfg),
		Connect: stripego.GetBackendWithConfig(stripego.ConnectBackend, cfg),
		Uploads: stripego.GetBackendWithConfig(stripego.UploadsBackend, cfg),
	})

	return &Processor{api: api, currency: opts.Currency}
}

func (p *Processor) CreateSession(ctx context.Context, req checkout.CheckoutRequest) (*checkout.Session, error) {
	params := &stripego.CheckoutSessionParams{
		PaymentMethodTypes: stripego.StringSlice([]string{paymentMethodCard}),
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:         stripego.String(req.SuccessURL),
		CancelURL:          stripego.String(req.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency: stripego.String(p.currency),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(req.Description),
					},
					UnitAmount: stripego.Int64(checkout.ToMinorUnits(req.Amount)),
				},
				Quantity: stripego.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, processorError(err)
	}

	return toSession(s), nil
}

func (p *Processor) RetrieveSession(ctx context.Context, sessionID string) (*checkout.Session, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, processorError(err)
	}

	return toSession(s), nil
}

func toSession(s *stripego.CheckoutSession) *checkout.Session {
	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}

	return &checkout.Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: checkout.PaymentStatus(s.PaymentStatus),
		CustomerEmail: email,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}
}

func processorError(err error) error {
	var se *stripego.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &checkout.ProcessorError{Message: se.Msg, Err: err}
	}
	return &checkout.ProcessorError{Message: err.Error(), Err: err}
}
