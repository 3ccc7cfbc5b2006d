package gateway

import (
	"context"
	"fmt"

	"github.com/xendit/xendit-go/v6"
	"github.com/xendit/xendit-go/v6/invoice"
)

type Xendit struct {
	client *xendit.APIClient
}

func NewXendit(secretKey string) *Xendit {
	return &Xendit{client: xendit.NewClient(secretKey)}
}

func (x *Xendit) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	amount, err := wholeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	invoiceReq := invoice.NewCreateInvoiceRequest(req.PaymentID, float64(amount))
	if req.Description != "" {
		invoiceReq.SetDescription(req.Description)
	}

	resp, _, xerr := x.client.InvoiceApi.CreateInvoice(ctx).
		CreateInvoiceRequest(*invoiceReq).
		Execute()
	if xerr != nil {
		return nil, fmt.Errorf("xendit: %s", xerr.Error())
	}
	return &Checkout{
		Reference: resp.GetId(),
		URL:       resp.GetInvoiceUrl(),
		Token:     resp.GetExternalId(),
	}, nil
}
