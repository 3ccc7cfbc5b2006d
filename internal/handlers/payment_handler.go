package handlers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/challan"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentNotification accepts our own verify body as well as the Midtrans
// (order_id, transaction_status) and Xendit invoice (external_id, status)
// callbacks. Both providers carry our payment id as their order reference.
type PaymentNotification struct {
	PaymentID     string `json:"paymentId"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`

	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	MidtransTxID      string `json:"transaction_id"`

	ExternalID string `json:"external_id"`
	InvoiceID  string `json:"id"`
}

func (n PaymentNotification) normalize() challan.VerifyPaymentInput {
	in := challan.VerifyPaymentInput{
		PaymentID:     n.PaymentID,
		Status:        n.Status,
		TransactionID: n.TransactionID,
	}

	switch {
	case in.PaymentID != "":
	case n.OrderID != "":
		in.PaymentID = n.OrderID
		in.Status = n.TransactionStatus
		in.TransactionID = n.MidtransTxID
	case n.ExternalID != "":
		in.PaymentID = n.ExternalID
		in.TransactionID = n.InvoiceID
	}
	return in
}

type PaymentHandler struct {
	challans *challan.Service
	logger   *zap.Logger
}

func NewPaymentHandler(challans *challan.Service, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{challans: challans, logger: logger}
}

func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req challan.InitiatePaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	session, err := h.challans.InitiatePayment(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"paymentId":         session.PaymentID,
		"paymentGatewayUrl": session.PaymentGatewayURL,
		"paymentToken":      session.PaymentToken,
	})
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var notification PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if err := h.challans.VerifyPayment(c.Request.Context(), notification.normalize()); err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.challans.GetPaymentReceipt(c.Request.Context(), middleware.GetUserID(c), c.Param("challanId"))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"receiptUrl":     receipt.ReceiptURL,
		"receiptId":      receipt.ReceiptID,
		"paymentDetails": receipt.PaymentDetails,
	})
}
