package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/stripe"
)

func newTestProcessor(t *testing.T, handler http.HandlerFunc) *stripe.Processor {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return stripe.NewProcessor(stripe.Options{
		SecretKey: "sk_test_relay",
		Currency:  "myr",
		APIURL:    srv.URL,
	})
}

func TestProcessor_CreateSession_SendsMinorUnitsAndMetadata(t *testing.T) {
	var form url.Values
	var path string

	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","payment_status":"unpaid"}`))
	})

	sess, err := p.CreateSession(context.Background(), checkout.CheckoutRequest{
		Amount:        decimal.RequireFromString("19.99"),
		Description:   "Invoice Payment",
		CustomerEmail: "a@b.com",
		SuccessURL:    "http://relay/success",
		CancelURL:     "http://relay/cancel",
		Metadata:      map[string]string{"invoice_id": "INV-1"},
	})
	require.NoError(t, err)

	require.Equal(t, "/v1/checkout/sessions", path)
	require.Equal(t, "cs_test_1", sess.ID)
	require.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)

	require.Equal(t, "1999", form.Get("line_items[0][price_data][unit_amount]"))
	require.Equal(t, "myr", form.Get("line_items[0][price_data][currency]"))
	require.Equal(t, "Invoice Payment", form.Get("line_items[0][price_data][product_data][name]"))
	require.Equal(t, "1", form.Get("line_items[0][quantity]"))
	require.Equal(t, "payment", form.Get("mode"))
	require.Equal(t, "card", form.Get("payment_method_types[0]"))
	require.Equal(t, "a@b.com", form.Get("customer_email"))
	require.Equal(t, "INV-1", form.Get("metadata[invoice_id]"))
	require.Equal(t, "http://relay/success", form.Get("success_url"))
}

func TestProcessor_CreateSession_SurfacesStripeMessage(t *testing.T) {
	calls := 0
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid email address: nope"}}`))
	})

	_, err := p.CreateSession(context.Background(), checkout.CheckoutRequest{
		Amount:        decimal.NewFromInt(10),
		CustomerEmail: "nope",
	})

	var pe *checkout.ProcessorError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "Invalid email address: nope", pe.Message)
	require.Equal(t, 1, calls)
}

func TestProcessor_RetrieveSession(t *testing.T) {
	var path string
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cs_1",
			"object": "checkout.session",
			"payment_status": "paid",
			"amount_total": 5000,
			"currency": "myr",
			"customer_email": null,
			"customer_details": {"email": "a@b.com"},
			"metadata": {"invoice_id": "INV-1"}
		}`))
	})

	sess, err := p.RetrieveSession(context.Background(), "cs_1")
	require.NoError(t, err)

	require.Equal(t, "/v1/checkout/sessions/cs_1", path)
	require.True(t, sess.Paid())
	require.Equal(t, int64(5000), sess.AmountTotal)
	require.Equal(t, "a@b.com", sess.CustomerEmail)
	require.Equal(t, "myr", sess.Currency)
	require.Equal(t, "INV-1", sess.Metadata["invoice_id"])
	require.True(t, checkout.FromMinorUnits(sess.AmountTotal).Equal(decimal.NewFromInt(50)))
}

func TestProcessor_RetrieveSession_NotFound(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session: 'cs_missing'"}}`))
	})

	_, err := p.RetrieveSession(context.Background(), "cs_missing")

	var pe *checkout.ProcessorError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, pe.Message, "No such checkout.session")
}
