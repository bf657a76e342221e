package checkout_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
)

func TestToMinorUnits_RoundTripsTwoDecimalAmounts(t *testing.T) {
	amounts := []string{"0.01", "0.1", "1", "19.99", "50", "50.05", "0.29", "1234.56", "99999.99"}

	for _, a := range amounts {
		amount := decimal.RequireFromString(a)

		minor := checkout.ToMinorUnits(amount)
		back := checkout.FromMinorUnits(minor)

		require.Truef(t, back.Equal(amount), "amount %s: got %s back (minor %d)", a, back, minor)
	}
}

func TestToMinorUnits_RoundsInsteadOfTruncating(t *testing.T) {
	// 0.29 * 100 is 28.999... in binary floating point.
	amount := decimal.NewFromFloat(0.29)
	require.Equal(t, int64(29), checkout.ToMinorUnits(amount))

	require.Equal(t, int64(1001), checkout.ToMinorUnits(decimal.RequireFromString("10.005")))
	require.Equal(t, int64(1000), checkout.ToMinorUnits(decimal.RequireFromString("10.004")))
}

func TestFromMinorUnits(t *testing.T) {
	require.Equal(t, "50", checkout.FromMinorUnits(5000).String())
	require.Equal(t, "10", checkout.FromMinorUnits(1000).String())
	require.Equal(t, "0.5", checkout.FromMinorUnits(50).String())
}

func TestCompletionNotification_Complete(t *testing.T) {
	n := checkout.CompletionNotification{InvoiceID: "INV-1", CustomerEmail: "a@b.com", SessionID: "cs_1"}
	if !n.Complete() {
		t.Fatalf("expected notification to be complete")
	}

	n.CustomerEmail = ""
	if n.Complete() {
		t.Fatalf("expected notification without email to be incomplete")
	}

	n = checkout.CompletionNotification{CustomerEmail: "a@b.com"}
	if n.Complete() {
		t.Fatalf("expected notification without invoice id to be incomplete")
	}
}
