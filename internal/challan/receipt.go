package challan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentDetails struct {
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod string               `json:"paymentMethod"`
	PaymentDate   *time.Time           `json:"paymentDate"`
	Status        models.PaymentStatus `json:"status"`
	TransactionID string               `json:"transactionId"`
}

type Receipt struct {
	ReceiptURL     string         `json:"receiptUrl"`
	ReceiptID      string         `json:"receiptId"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

func ReceiptKey(challanID string) string {
	return fmt.Sprintf("receipts/%s.html", challanID)
}

func ReceiptID(challanID string) string {
	return "REC-" + challanID
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.ReceiptID}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 32px; color: #222; }
table { border-collapse: collapse; width: 100%; max-width: 640px; }
td { border: 1px solid #ccc; padding: 8px; }
td.label { width: 40%; font-weight: bold; background: #f5f5f5; }
</style>
</head>
<body>
<h2>Payment Receipt</h2>
<table>
<tr><td class="label">Receipt No.</td><td>{{.ReceiptID}}</td></tr>
<tr><td class="label">Challan No.</td><td>{{.ChallanID}}</td></tr>
<tr><td class="label">{{if eq .Type "shop"}}Shop{{else}}Name{{end}}</td><td>{{.SubjectName}}</td></tr>
{{if .ContactPerson}}<tr><td class="label">Contact Person</td><td>{{.ContactPerson}}</td></tr>{{end}}
<tr><td class="label">Phone</td><td>{{.Phone}}</td></tr>
{{if .Address}}<tr><td class="label">Address</td><td>{{.Address}}</td></tr>{{end}}
<tr><td class="label">Reason</td><td>{{.Reason}}</td></tr>
<tr><td class="label">Amount</td><td>&#8377; {{.Amount}}</td></tr>
<tr><td class="label">Amount in Words</td><td>{{.AmountInWords}}</td></tr>
<tr><td class="label">Payment Method</td><td>{{.PaymentMethod}}</td></tr>
<tr><td class="label">Transaction ID</td><td>{{.TransactionID}}</td></tr>
<tr><td class="label">Paid On</td><td>{{.PaidOn}}</td></tr>
</table>
</body>
</html>
`))

type receiptView struct {
	ReceiptID     string
	ChallanID     string
	Type          string
	SubjectName   string
	ContactPerson string
	Phone         string
	Address       string
	Reason        string
	Amount        string
	AmountInWords string
	PaymentMethod string
	TransactionID string
	PaidOn        string
}

func renderReceipt(challan *models.Challan, payment *models.Payment) ([]byte, error) {
	paidOn := ""
	if payment.CompletedAt != nil {
		paidOn = payment.CompletedAt.UTC().Format("02 Jan 2006 15:04 MST")
	}

	view := receiptView{
		ReceiptID:     ReceiptID(challan.ChallanID),
		ChallanID:     challan.ChallanID,
		Type:          string(challan.Type),
		SubjectName:   challan.SubjectName(),
		ContactPerson: challan.ContactPerson,
		Phone:         challan.Phone,
		Address:       challan.AddressText,
		Reason:        challan.Reason,
		Amount:        payment.Amount.StringFixed(2),
		AmountInWords: helpers.NumberToCurrencyWords(payment.Amount),
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		PaidOn:        paidOn,
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetPaymentReceipt returns the receipt of a paid challan. The document is
// rendered and stored on first request; later calls reuse its URL.
func (s *Service) GetPaymentReceipt(ctx context.Context, uid, challanID string) (*Receipt, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	challan, err := s.getChallan(ctx, challanID)
	if err != nil {
		return nil, err
	}
	if !challan.IsPaid() {
		return nil, apperr.New(apperr.FailedPrecondition, "Payment not completed for this challan.")
	}
	if challan.PaymentID == nil || *challan.PaymentID == "" {
		return nil, apperr.New(apperr.NotFound, "Payment details not found.")
	}

	payment, err := s.store.GetPayment(ctx, *challan.PaymentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Payment details not found.")
	}
	if err != nil {
		return nil, s.fail("Failed to load payment.", err, zap.String("payment_id", *challan.PaymentID))
	}

	receiptURL := payment.ReceiptURL
	if receiptURL == "" {
		doc, err := renderReceipt(challan, payment)
		if err != nil {
			return nil, s.fail("Failed to render receipt.", err, zap.String("challan_id", challan.ChallanID))
		}

		receiptURL, err = s.blobs.Put(ctx, ReceiptKey(challan.ChallanID), doc, "text/html; charset=utf-8")
		if err != nil {
			return nil, s.fail("Failed to store receipt.", err, zap.String("challan_id", challan.ChallanID))
		}
		if err := s.store.SetPaymentReceipt(ctx, payment.ID, receiptURL); err != nil {
			return nil, s.fail("Failed to save receipt.", err, zap.String("payment_id", payment.ID))
		}
	}

	return &Receipt{
		ReceiptURL: receiptURL,
		ReceiptID:  ReceiptID(challan.ChallanID),
		PaymentDetails: PaymentDetails{
			Amount:        payment.Amount,
			PaymentMethod: payment.PaymentMethod,
			PaymentDate:   payment.CompletedAt,
			Status:        payment.Status,
			TransactionID: payment.TransactionID,
		},
	}, nil
}
