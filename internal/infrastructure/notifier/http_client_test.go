package notifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/notifier"
)

type noopLogger struct{}

func (n *noopLogger) Info(string, map[string]any)  {}
func (n *noopLogger) Warn(string, map[string]any)  {}
func (n *noopLogger) Error(string, map[string]any) {}

func TestHTTPClient_PostsPaymentSuccess(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := notifier.NewHTTPClient(srv.URL, time.Second, &noopLogger{})

	err := client.Send(context.Background(), checkout.CompletionNotification{
		InvoiceID:     "INV-1",
		CustomerEmail: "a@b.com",
		SessionID:     "cs_2",
		AmountPaid:    1000,
	})
	require.NoError(t, err)

	require.Equal(t, "/handle-payment-success", gotPath)
	require.Equal(t, "application/json", gotContentType)
	require.JSONEq(t, `{"invoice_id":"INV-1","customer_email":"a@b.com","session_id":"cs_2","amount_paid":10}`, string(gotBody))
}

func TestHTTPClient_AmountKeepsCents(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := notifier.NewHTTPClient(srv.URL, time.Second, &noopLogger{})

	require.NoError(t, client.Send(context.Background(), checkout.CompletionNotification{
		InvoiceID: "INV-9", CustomerEmail: "x@y.com", SessionID: "cs_9", AmountPaid: 5050,
	}))
	require.Equal(t, 50.5, body["amount_paid"])
}

func TestHTTPClient_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invoice locked", http.StatusConflict)
	}))
	defer srv.Close()

	client := notifier.NewHTTPClient(srv.URL, time.Second, &noopLogger{})

	err := client.Send(context.Background(), checkout.CompletionNotification{
		InvoiceID: "INV-1", CustomerEmail: "a@b.com", SessionID: "cs_1", AmountPaid: 100,
	})

	var statusErr *notifier.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusConflict, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "invoice locked")
}

func TestHTTPClient_TransportFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := notifier.NewHTTPClient(url, time.Second, &noopLogger{})

	err := client.Send(context.Background(), checkout.CompletionNotification{
		InvoiceID: "INV-1", CustomerEmail: "a@b.com", SessionID: "cs_1",
	})
	require.Error(t, err)
}
