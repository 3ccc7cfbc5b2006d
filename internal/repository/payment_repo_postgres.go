package repository

import (
	"context"
	"time"

	"github.com/farellandr/echallan/internal/models"
)

func (s *PostgresStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return translate(s.db.WithContext(ctx).Create(payment).Error)
}

func (s *PostgresStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *PostgresStore) SetPaymentCheckout(ctx context.Context, id, reference, url, token string) error {
	result := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]any{
		"gateway_reference":   reference,
		"payment_gateway_url": url,
		"payment_token":       token,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":         status,
		"transaction_id": transactionID,
		"updated_at":     at,
	}
	if status == models.PaymentStatusCompleted {
		updates["completed_at"] = at
	}

	result := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status <> ?", id, models.PaymentStatusCompleted).
		Updates(updates)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	if _, err := s.GetPayment(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PostgresStore) SetPaymentReceipt(ctx context.Context, id, receiptURL string) error {
	result := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("receipt_url", receiptURL)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPayments(ctx context.Context, query PaymentQuery) ([]models.Payment, error) {
	tx := s.db.WithContext(ctx)
	if query.UserID != "" {
		tx = tx.Where("user_id = ?", query.UserID)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var payments []models.Payment
	err := tx.Order("completed_at DESC NULLS LAST, created_at DESC").Find(&payments).Error
	return payments, translate(err)
}
