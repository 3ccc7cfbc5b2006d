package gateway

import (
	"context"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type Midtrans struct {
	client snap.Client
}

func NewMidtrans(serverKey string, production bool) *Midtrans {
	m := &Midtrans{}
	if production {
		m.client.New(serverKey, midtrans.Production)
	} else {
		m.client.New(serverKey, midtrans.Sandbox)
	}
	return m
}

func (m *Midtrans) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	amount, err := wholeAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.PaymentID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Phone: req.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       req.ChallanID,
				Price:    amount,
				Qty:      1,
				Name:     truncate(req.Description, 50),
				Category: "Challan",
			},
		},
	}

	resp, merr := m.client.CreateTransaction(snapReq)
	if merr != nil {
		return nil, fmt.Errorf("midtrans: %w", merr)
	}
	return &Checkout{
		Reference: req.PaymentID,
		URL:       resp.RedirectURL,
		Token:     resp.Token,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
