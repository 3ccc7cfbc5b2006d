package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	OTPTTL         = 5 * time.Minute
	MaxOTPAttempts = 5
)


// OTPSender delivers a login code to a phone.
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogOTPSender writes codes to the log instead of sending an SMS.
type LogOTPSender struct {
	Logger *zap.Logger
}

func (l LogOTPSender) SendOTP(ctx context.Context, phone, code string) error {
	l.Logger.Info("otp issued", zap.String("phone", phone), zap.String("code", code))
	return nil
}

type LoginResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	IsNewUser bool      `json:"isNewUser"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func normalizePhone(phone string) (string, error) {
	phone, err := helpers.NormalizePhone(phone)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidArgument, err.Error(), err)
	}
	return phone, nil
}

func newOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestOTP issues a fresh code for phone, replacing any pending one.
func (s *Service) RequestOTP(ctx context.Context, phone string) (time.Time, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return time.Time{}, err
	}

	code, err := newOTPCode()
	if err != nil {
		return time.Time{}, s.fail("Failed to generate verification code.", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return time.Time{}, s.fail("Failed to generate verification code.", err)
	}

	now := s.timestamp()
	otp := &models.OTP{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(OTPTTL),
		CreatedAt: now,
	}
	if err := s.store.SaveOTP(ctx, otp); err != nil {
		return time.Time{}, s.fail("Failed to save verification code.", err)
	}
	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		return time.Time{}, s.fail("Failed to send verification code.", err)
	}
	return otp.ExpiresAt, nil
}

// VerifyOTP exchanges a valid code for a token. A phone already on a user
// profile logs in as that user; otherwise a new user id is minted.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.New(apperr.InvalidArgument, "code is required")
	}

	otp, err := s.store.GetOTP(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.FailedPrecondition, "No pending verification for this phone. Request a new code.")
	}
	if err != nil {
		return nil, s.fail("Failed to load verification code.", err)
	}

	if otp.Attempts >= MaxOTPAttempts || !s.now().Before(otp.ExpiresAt) {
		if err := s.store.DeleteOTP(ctx, phone); err != nil {
			s.logger.Warn("failed to discard stale otp", zap.Error(err))
		}
		return nil, apperr.New(apperr.FailedPrecondition, "Verification code expired. Request a new code.")
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		if err := s.store.IncrementOTPAttempts(ctx, phone); err != nil {
			return nil, s.fail("Failed to record verification attempt.", err)
		}
		return nil, apperr.New(apperr.Unauthenticated, "Invalid verification code.")
	}

	if err := s.store.DeleteOTP(ctx, phone); err != nil {
		return nil, s.fail("Failed to consume verification code.", err)
	}

	result := &LoginResult{}
	user, err := s.store.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		result.UserID = user.UID
	case errors.Is(err, repository.ErrNotFound):
		result.UserID = uuid.New().String()
		result.IsNewUser = true
	default:
		return nil, s.fail("Failed to look up user.", err)
	}

	result.Token, result.ExpiresAt, err = s.tokens.Issue(result.UserID, phone)
	if err != nil {
		return nil, s.fail("Failed to generate token.", err)
	}
	s.logger.Info("phone login", zap.String("user_id", result.UserID), zap.Bool("new_user", result.IsNewUser))
	return result, nil
}
