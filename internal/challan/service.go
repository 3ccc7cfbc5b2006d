// Package challan runs the challan lifecycle: issuing penalties against a
// person or shop, evidence photos, payment initiation and reconciliation,
// and receipts.
package challan

import (
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/blob"
	"github.com/farellandr/echallan/internal/gateway"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxIDAttempts = 5

type Deps struct {
	Store   repository.Store
	Blobs   blob.Store
	Gateway gateway.Gateway
	Signer  *helpers.Signer
	Logger  *zap.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) { s.newID = gen }
}

type Service struct {
	store    repository.Store
	blobs    blob.Store
	gateway  gateway.Gateway
	signer   *helpers.Signer
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
	newID    IDGenerator
}

func NewService(deps Deps, opts ...Option) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gw := deps.Gateway
	if gw == nil {
		gw = gateway.NewSimulated("")
	}

	s := &Service{
		store:    deps.Store,
		blobs:    deps.Blobs,
		gateway:  gw,
		signer:   deps.Signer,
		logger:   logger.Named("challan"),
		validate: helpers.NewValidator(),
		now:      time.Now,
		newID:    GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return helpers.ValidationError(err)
	}
	return nil
}

// timestamp is the service clock in UTC at millisecond precision, which every
// store round-trips exactly.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func requireCaller(uid string) error {
	if uid == "" {
		return apperr.New(apperr.Unauthenticated, "User must be authenticated.")
	}
	return nil
}

// fail logs a collaborator failure and hides it behind an internal error.
func (s *Service) fail(message string, err error, fields ...zap.Field) error {
	s.logger.Error(message, append(fields, zap.Error(err))...)
	return apperr.Wrap(apperr.Internal, message, err)
}
