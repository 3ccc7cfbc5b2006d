package gateway

import (
	"context"
	"strings"
)

const defaultSimulatedBaseURL = "https://example-payment-gateway.com/pay"

// Simulated hands out a placeholder checkout. Completion arrives later
// through the payment webhook.
type Simulated struct {
	baseURL string
}

func NewSimulated(baseURL string) *Simulated {
	if baseURL == "" {
		baseURL = defaultSimulatedBaseURL
	}
	return &Simulated{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Simulated) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	return &Checkout{
		Reference: req.PaymentID,
		URL:       s.baseURL + "/" + req.PaymentID,
		Token:     "dummy-token-" + req.PaymentID,
	}, nil
}
