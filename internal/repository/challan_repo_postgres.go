package repository

import (
	"context"
	"time"

	"github.com/farellandr/echallan/internal/models"
)

func (s *PostgresStore) CreateChallan(ctx context.Context, challan *models.Challan) error {
	return translate(s.db.WithContext(ctx).Create(challan).Error)
}

func (s *PostgresStore) GetChallan(ctx context.Context, challanID string) (*models.Challan, error) {
	var challan models.Challan
	if err := s.db.WithContext(ctx).Where("challan_id = ?", challanID).First(&challan).Error; err != nil {
		return nil, translate(err)
	}
	return &challan, nil
}

func (s *PostgresStore) ListChallans(ctx context.Context, query ChallanQuery) ([]models.Challan, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", query.UserID)
	if query.Type != "" {
		tx = tx.Where("type = ?", query.Type)
	}
	if query.Status != "" {
		tx = tx.Where("payment_status = ?", query.Status)
	}
	if query.After != nil {
		tx = tx.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			query.After.CreatedAt, query.After.CreatedAt, query.After.ID)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var challans []models.Challan
	err := tx.Order("created_at DESC, id DESC").Find(&challans).Error
	return challans, translate(err)
}

func (s *PostgresStore) SetChallanQR(ctx context.Context, challanID, qrCodeURL string, status models.QRStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Challan{}).Where("challan_id = ?", challanID).Updates(map[string]any{
		"qr_code_url": qrCodeURL,
		"qr_status":   status,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MarkChallanPaid(ctx context.Context, challanID, paymentID string, paidAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Challan{}).
		Where("challan_id = ? AND payment_status = ?", challanID, models.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": models.PaymentStatusCompleted,
			"payment_id":     paymentID,
			"paid_at":        paidAt,
		})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	if _, err := s.GetChallan(ctx, challanID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PostgresStore) CreatePhoto(ctx context.Context, photo *models.ChallanPhoto) error {
	return translate(s.db.WithContext(ctx).Create(photo).Error)
}

func (s *PostgresStore) ListPhotos(ctx context.Context, challanID string) ([]models.ChallanPhoto, error) {
	var photos []models.ChallanPhoto
	err := s.db.WithContext(ctx).Where("challan_id = ?", challanID).Order("index ASC").Find(&photos).Error
	return photos, translate(err)
}

func (s *PostgresStore) CountPhotos(ctx context.Context, challanID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChallanPhoto{}).Where("challan_id = ?", challanID).Count(&count).Error
	return int(count), translate(err)
}
