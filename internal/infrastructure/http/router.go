package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/metrics"
)

func NewRouter(handler *CheckoutHandler, serverMetrics *metrics.ServerMetrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	if handler.Logger != nil {
		r.Use(LogRequests(handler.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PUT", "DELETE", "HEAD"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization", "Origin", "X-Requested-With"},
		AllowCredentials: true,
	}))
	if serverMetrics != nil {
		r.Use(Instrument(serverMetrics))
	}

	r.Post("/create-checkout-session", handler.CreateCheckoutSession)
	r.Post("/verify-payment", handler.VerifyPayment)
	r.Get("/success", handler.Success)
	r.Get("/cancel", handler.Cancel)
	r.Post("/webhook", handler.Webhook)
	r.Get("/health", handler.Health)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
