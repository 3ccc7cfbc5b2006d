package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimulatedCheckout(t *testing.T) {
	g := NewSimulated("")
	checkout, err := g.CreateCheckout(context.Background(), CheckoutRequest{
		PaymentID: "pay-1",
		Amount:    decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if checkout.URL != "https://example-payment-gateway.com/pay/pay-1" {
		t.Fatalf("unexpected url %q", checkout.URL)
	}
	if checkout.Token != "dummy-token-pay-1" {
		t.Fatalf("unexpected token %q", checkout.Token)
	}
}

func TestNewRejectsMissingKeys(t *testing.T) {
	if _, err := New(Config{Provider: ProviderMidtrans}); err == nil {
		t.Fatal("midtrans without a server key should fail")
	}
	if _, err := New(Config{Provider: ProviderXendit}); err == nil {
		t.Fatal("xendit without a secret key should fail")
	}
	if _, err := New(Config{Provider: "paypal"}); err == nil {
		t.Fatal("unknown provider should fail")
	}

	g, err := New(Config{})
	if err != nil {
		t.Fatalf("default provider: %v", err)
	}
	if _, ok := g.(*Simulated); !ok {
		t.Fatalf("default provider should be simulated, got %T", g)
	}
}

func TestHostedGatewaysRefuseToRoundAmounts(t *testing.T) {
	gateways := map[string]Gateway{
		ProviderMidtrans: NewMidtrans("SB-Mid-server-test", false),
		ProviderXendit:   NewXendit("xnd_development_test"),
	}
	for name, g := range gateways {
		_, err := g.CreateCheckout(context.Background(), CheckoutRequest{
			PaymentID: "pay-1",
			ChallanID: "KDP1234567890",
			Amount:    decimal.RequireFromString("500.50"),
		})
		if !errors.Is(err, ErrFractionalAmount) {
			t.Errorf("%s: expected ErrFractionalAmount, got %v", name, err)
		}
	}
}

func TestWholeAmount(t *testing.T) {
	if n, err := wholeAmount(decimal.RequireFromString("500.00")); err != nil || n != 500 {
		t.Fatalf("wholeAmount(500.00) = %d, %v", n, err)
	}
	if _, err := wholeAmount(decimal.RequireFromString("0.01")); !errors.Is(err, ErrFractionalAmount) {
		t.Fatalf("wholeAmount(0.01): %v", err)
	}
	if _, err := wholeAmount(decimal.Zero); err == nil || errors.Is(err, ErrFractionalAmount) {
		t.Fatalf("wholeAmount(0): %v", err)
	}
}
