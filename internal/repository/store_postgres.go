package repository

import (
	"context"
	"errors"

	"github.com/farellandr/echallan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore keeps the same collections as tables. The database must be
// opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return translate(err)
	}
	return translate(s.db.WithContext(ctx).First(user, "uid = ?", user.UID).Error)
}

func (s *PostgresStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("uid = ?", user.UID).Updates(map[string]any{
		"name":       user.Name,
		"email":      user.Email,
		"phone":      user.Phone,
		"updated_at": user.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return translate(s.db.WithContext(ctx).First(user, "uid = ?", user.UID).Error)
}

func (s *PostgresStore) SaveOTP(ctx context.Context, otp *models.OTP) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		UpdateAll: true,
	}).Create(otp).Error
	return translate(err)
}

func (s *PostgresStore) GetOTP(ctx context.Context, phone string) (*models.OTP, error) {
	var otp models.OTP
	if err := s.db.WithContext(ctx).First(&otp, "phone = ?", phone).Error; err != nil {
		return nil, translate(err)
	}
	return &otp, nil
}

func (s *PostgresStore) IncrementOTPAttempts(ctx context.Context, phone string) error {
	result := s.db.WithContext(ctx).Model(&models.OTP{}).Where("phone = ?", phone).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteOTP(ctx context.Context, phone string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.OTP{}, "phone = ?", phone).Error)
}

func (s *PostgresStore) CreateAddress(ctx context.Context, address *models.Address) error {
	return translate(s.db.WithContext(ctx).Create(address).Error)
}

func (s *PostgresStore) GetAddress(ctx context.Context, id string) (*models.Address, error) {
	var address models.Address
	if err := s.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (s *PostgresStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&addresses).Error
	return addresses, translate(err)
}
