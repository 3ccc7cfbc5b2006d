// Package account handles phone login, user profiles and saved addresses.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/identity"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ProfileInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required"`
}

type AddressInput struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	Zipcode string `json:"zipcode" validate:"required"`
}

type Service struct {
	store    repository.Store
	tokens   *identity.JWTManager
	sender   OTPSender
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store repository.Store, tokens *identity.JWTManager, sender OTPSender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = LogOTPSender{Logger: logger}
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		sender:   sender,
		logger:   logger.Named("account"),
		validate: helpers.NewValidator(),
		now:      time.Now,
	}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return helpers.ValidationError(err)
	}
	return nil
}

func (s *Service) fail(message string, err error, fields ...zap.Field) error {
	s.logger.Error(message, append(fields, zap.Error(err))...)
	return apperr.Wrap(apperr.Internal, message, err)
}

func requireCaller(uid string) error {
	if uid == "" {
		return apperr.New(apperr.Unauthenticated, "User must be authenticated.")
	}
	return nil
}

func trimProfile(in ProfileInput) ProfileInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// checkProfile validates in and stores the phone in the form VerifyOTP looks
// users up by.
func (s *Service) checkProfile(in ProfileInput) (ProfileInput, error) {
	in = trimProfile(in)
	if err := s.check(in); err != nil {
		return in, err
	}
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return in, err
	}
	in.Phone = phone
	return in, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateUserAccount creates the caller's profile, or merges into an existing
// one keeping its createdAt and isAdmin.
func (s *Service) CreateUserAccount(ctx context.Context, uid string, in ProfileInput) (*models.User, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	in, err := s.checkProfile(in)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	user := &models.User{
		UID:       uid,
		Name:      in.Name,
		Email:     optional(in.Email),
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, s.fail("Failed to save user account.", err, zap.String("user_id", uid))
	}
	return user, nil
}

func (s *Service) GetUserProfile(ctx context.Context, uid string) (*models.User, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "User profile not found.")
	}
	if err != nil {
		return nil, s.fail("Failed to load user profile.", err, zap.String("user_id", uid))
	}
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, uid string, in ProfileInput) (*models.User, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	in, err := s.checkProfile(in)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UID:       uid,
		Name:      in.Name,
		Email:     optional(in.Email),
		Phone:     in.Phone,
		UpdatedAt: s.timestamp(),
	}
	err = s.store.UpdateUser(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "User profile not found.")
	}
	if err != nil {
		return nil, s.fail("Failed to update user profile.", err, zap.String("user_id", uid))
	}
	return user, nil
}

func (s *Service) CreateAddress(ctx context.Context, uid string, in AddressInput) (*models.Address, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Country = strings.TrimSpace(in.Country)
	in.Zipcode = strings.TrimSpace(in.Zipcode)
	if err := s.check(in); err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:    uid,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Country:   in.Country,
		Zipcode:   in.Zipcode,
		CreatedAt: s.timestamp(),
	}
	if err := s.store.CreateAddress(ctx, address); err != nil {
		return nil, s.fail("Failed to save address.", err, zap.String("user_id", uid))
	}
	return address, nil
}

func (s *Service) ListAddresses(ctx context.Context, uid string) ([]models.Address, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	addresses, err := s.store.ListAddresses(ctx, uid)
	if err != nil {
		return nil, s.fail("Failed to list addresses.", err, zap.String("user_id", uid))
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}
