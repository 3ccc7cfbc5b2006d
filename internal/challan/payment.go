package challan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/gateway"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InitiatePaymentInput struct {
	ChallanID     string          `json:"challanId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
}

type PaymentSession struct {
	PaymentID         string `json:"paymentId"`
	PaymentGatewayURL string `json:"paymentGatewayUrl"`
	PaymentToken      string `json:"paymentToken"`
}

type VerifyPaymentInput struct {
	PaymentID     string `json:"paymentId" validate:"required"`
	Status        string `json:"status" validate:"required"`
	TransactionID string `json:"transactionId"`
}

// NormalizeStatus maps gateway status words onto payment statuses. Refunds
// and chargebacks map to failed; completed payments are terminal, so they
// are acknowledged without touching a settled challan.
func NormalizeStatus(status string) (models.PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "paid", "success", "settlement", "capture":
		return models.PaymentStatusCompleted, true
	case "failed", "failure", "expired", "expire", "cancelled", "canceled", "cancel", "deny",
		"refund", "partial_refund", "chargeback", "partial_chargeback":
		return models.PaymentStatusFailed, true
	case "pending":
		return models.PaymentStatusPending, true
	default:
		return "", false
	}
}

// InitiatePayment opens a gateway checkout for a pending challan. The amount
// must equal the penalty exactly; the challan itself is not modified.
func (s *Service) InitiatePayment(ctx context.Context, uid string, in InitiatePaymentInput) (*PaymentSession, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	in.ChallanID = strings.TrimSpace(in.ChallanID)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if err := s.check(in); err != nil {
		return nil, err
	}

	challan, err := s.getChallan(ctx, in.ChallanID)
	if err != nil {
		return nil, err
	}
	if !challan.Penalty.Equal(in.Amount) {
		return nil, apperr.New(apperr.InvalidArgument, "Payment amount does not match challan penalty.")
	}
	if challan.IsPaid() {
		return nil, apperr.New(apperr.AlreadyExists, "Payment already completed for this challan.")
	}

	now := s.timestamp()
	payment := &models.Payment{
		ChallanID:     challan.ChallanID,
		UserID:        uid,
		Amount:        challan.Penalty,
		PaymentMethod: in.PaymentMethod,
		Status:        models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, s.fail("Failed to create payment.", err, zap.String("challan_id", challan.ChallanID))
	}

	checkout, err := s.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		PaymentID:     payment.ID,
		ChallanID:     challan.ChallanID,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		Description:   "Challan " + challan.ChallanID + ": " + challan.Reason,
		CustomerName:  challan.SubjectName(),
		CustomerPhone: challan.Phone,
	})
	if err != nil {
		if _, markErr := s.store.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusFailed, "", s.timestamp()); markErr != nil {
			s.logger.Error("failed to mark payment failed", zap.String("payment_id", payment.ID), zap.Error(markErr))
		}
		if errors.Is(err, gateway.ErrFractionalAmount) {
			return nil, apperr.Wrap(apperr.FailedPrecondition, "The payment gateway cannot charge a fractional penalty.", err)
		}
		return nil, s.fail("Failed to create payment session.", err,
			zap.String("challan_id", challan.ChallanID),
			zap.String("payment_id", payment.ID),
		)
	}

	if err := s.store.SetPaymentCheckout(ctx, payment.ID, checkout.Reference, checkout.URL, checkout.Token); err != nil {
		return nil, s.fail("Failed to save payment session.", err, zap.String("payment_id", payment.ID))
	}

	s.logger.Info("payment initiated",
		zap.String("challan_id", challan.ChallanID),
		zap.String("payment_id", payment.ID),
		zap.String("method", payment.PaymentMethod),
	)
	return &PaymentSession{
		PaymentID:         payment.ID,
		PaymentGatewayURL: checkout.URL,
		PaymentToken:      checkout.Token,
	}, nil
}

// VerifyPayment applies a gateway notification. Completion is terminal and
// applied with conditional writes, so redelivered or concurrent
// notifications never move paidAt or paymentId once set.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyPaymentInput) error {
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	if err := s.check(in); err != nil {
		return err
	}

	status, ok := NormalizeStatus(in.Status)
	if !ok {
		return apperr.Newf(apperr.InvalidArgument, "Unknown payment status %q.", in.Status)
	}

	payment, err := s.store.GetPayment(ctx, in.PaymentID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.NotFound, "Payment not found.")
	}
	if err != nil {
		return s.fail("Failed to load payment.", err, zap.String("payment_id", in.PaymentID))
	}

	logger := s.logger.With(zap.String("payment_id", payment.ID), zap.String("challan_id", payment.ChallanID))

	if payment.Status == models.PaymentStatusCompleted {
		logger.Info("payment already completed, notification ignored", zap.String("status", string(status)))
		if payment.CompletedAt != nil {
			// Settle the challan if an earlier delivery stopped short of it.
			return s.settleChallan(ctx, logger, payment.ChallanID, payment.ID, *payment.CompletedAt)
		}
		return nil
	}

	now := s.timestamp()
	applied, err := s.store.UpdatePaymentStatus(ctx, payment.ID, status, in.TransactionID, now)
	if err != nil {
		return s.fail("Failed to update payment.", err, zap.String("payment_id", payment.ID))
	}
	if !applied {
		logger.Info("payment completed concurrently, notification ignored")
		return nil
	}
	logger.Info("payment status updated", zap.String("status", string(status)), zap.String("transaction_id", in.TransactionID))

	if status != models.PaymentStatusCompleted {
		return nil
	}
	return s.settleChallan(ctx, logger, payment.ChallanID, payment.ID, now)
}

func (s *Service) settleChallan(ctx context.Context, logger *zap.Logger, challanID, paymentID string, paidAt time.Time) error {
	marked, err := s.store.MarkChallanPaid(ctx, challanID, paymentID, paidAt)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("completed payment references a missing challan")
		return nil
	}
	if err != nil {
		return s.fail("Failed to update challan.", err, zap.String("challan_id", challanID), zap.String("payment_id", paymentID))
	}
	if !marked {
		challan, err := s.store.GetChallan(ctx, challanID)
		if err == nil && challan.PaymentID != nil && *challan.PaymentID != paymentID {
			logger.Warn("challan already settled by another payment", zap.String("settled_by", *challan.PaymentID))
		}
		return nil
	}
	logger.Info("challan paid")
	return nil
}
