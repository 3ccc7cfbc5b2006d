package repository

import (
	"context"
	"errors"
	"time"

	"github.com/farellandr/echallan/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ChallanQuery selects a page of one owner's challans, newest first.
// After, when set, is the (createdAt, id) of the last item already seen.
type ChallanQuery struct {
	UserID string
	Type   models.SubjectType
	Status models.PaymentStatus
	Limit  int
	After  *Cursor
}

type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        string    `json:"i"`
}

type PaymentQuery struct {
	UserID string
	Status models.PaymentStatus
	Limit  int
}

type UserRepository interface {
	// UpsertUser merges profile fields into an existing user and keeps its
	// createdAt and isAdmin; otherwise it inserts the user as given.
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type OTPRepository interface {
	SaveOTP(ctx context.Context, otp *models.OTP) error
	GetOTP(ctx context.Context, phone string) (*models.OTP, error)
	IncrementOTPAttempts(ctx context.Context, phone string) error
	DeleteOTP(ctx context.Context, phone string) error
}

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) error
	GetAddress(ctx context.Context, id string) (*models.Address, error)
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
}

type ChallanRepository interface {
	// CreateChallan returns ErrDuplicate when the challanId is taken.
	CreateChallan(ctx context.Context, challan *models.Challan) error
	GetChallan(ctx context.Context, challanID string) (*models.Challan, error)
	ListChallans(ctx context.Context, query ChallanQuery) ([]models.Challan, error)
	SetChallanQR(ctx context.Context, challanID, qrCodeURL string, status models.QRStatus) error
	// MarkChallanPaid moves a pending challan to completed. It reports false,
	// without error, when the challan was no longer pending.
	MarkChallanPaid(ctx context.Context, challanID, paymentID string, paidAt time.Time) (bool, error)
}

type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo *models.ChallanPhoto) error
	ListPhotos(ctx context.Context, challanID string) ([]models.ChallanPhoto, error)
	CountPhotos(ctx context.Context, challanID string) (int, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	SetPaymentCheckout(ctx context.Context, id, reference, url, token string) error
	// UpdatePaymentStatus applies the status unless the payment is already
	// completed, in which case it reports false without error.
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string, at time.Time) (bool, error)
	SetPaymentReceipt(ctx context.Context, id, receiptURL string) error
	ListPayments(ctx context.Context, query PaymentQuery) ([]models.Payment, error)
}

// Store is the document store as seen by the services.
type Store interface {
	UserRepository
	OTPRepository
	AddressRepository
	ChallanRepository
	PhotoRepository
	PaymentRepository
	Close(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
