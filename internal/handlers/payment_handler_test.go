package handlers

import "testing"

func TestPaymentNotificationNormalize(t *testing.T) {
	cases := []struct {
		name       string
		in         PaymentNotification
		wantID     string
		wantStatus string
		wantTx     string
	}{
		{
			name:       "native body",
			in:         PaymentNotification{PaymentID: "pay-1", Status: "completed", TransactionID: "tx-1"},
			wantID:     "pay-1",
			wantStatus: "completed",
			wantTx:     "tx-1",
		},
		{
			name:       "midtrans",
			in:         PaymentNotification{OrderID: "pay-2", TransactionStatus: "settlement", MidtransTxID: "mt-2"},
			wantID:     "pay-2",
			wantStatus: "settlement",
			wantTx:     "mt-2",
		},
		{
			name:       "xendit invoice",
			in:         PaymentNotification{ExternalID: "pay-3", Status: "PAID", InvoiceID: "inv-3"},
			wantID:     "pay-3",
			wantStatus: "PAID",
			wantTx:     "inv-3",
		},
	}

	for _, tc := range cases {
		got := tc.in.normalize()
		if got.PaymentID != tc.wantID || got.Status != tc.wantStatus || got.TransactionID != tc.wantTx {
			t.Errorf("%s: got %+v", tc.name, got)
		}
	}
}
