// Package gateway opens hosted checkouts for challan payments.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	PaymentID     string
	ChallanID     string
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	CustomerName  string
	CustomerPhone string
}

// Checkout is what the payer needs to complete a payment. Reference is the
// provider's own id for the transaction.
type Checkout struct {
	Reference string
	URL       string
	Token     string
}

// ErrFractionalAmount is returned by gateways that charge whole rupiah and
// would otherwise round the penalty.
var ErrFractionalAmount = errors.New("amount must be a whole number for this gateway")

// wholeAmount returns amount as an integer, refusing to round it.
func wholeAmount(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("invalid checkout amount %s", amount)
	}
	if !amount.Equal(amount.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrFractionalAmount, amount)
	}
	return amount.IntPart(), nil
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

const (
	ProviderSimulated = "simulated"
	ProviderMidtrans  = "midtrans"
	ProviderXendit    = "xendit"
)

type Config struct {
	Provider           string
	SimulatedBaseURL   string
	MidtransServerKey  string
	MidtransProduction bool
	XenditSecretKey    string
}

func New(cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case "", ProviderSimulated:
		return NewSimulated(cfg.SimulatedBaseURL), nil
	case ProviderMidtrans:
		if cfg.MidtransServerKey == "" {
			return nil, fmt.Errorf("MIDTRANS_SERVER_KEY is required for the midtrans gateway")
		}
		return NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction), nil
	case ProviderXendit:
		if cfg.XenditSecretKey == "" {
			return nil, fmt.Errorf("XENDIT_SECRET_KEY is required for the xendit gateway")
		}
		return NewXendit(cfg.XenditSecretKey), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", cfg.Provider)
	}
}
