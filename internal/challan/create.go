package challan

import (
	"context"
	"errors"
	"strings"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PersonChallanInput struct {
	Name        string             `json:"name" validate:"required"`
	Phone       string             `json:"phone" validate:"required"`
	Penalty     decimal.Decimal    `json:"penalty" validate:"gt=0"`
	Reason      string             `json:"reason" validate:"required"`
	PaymentType models.PaymentType `json:"paymentType" validate:"required,oneof=cash online"`
	Remarks     string             `json:"remarks"`
}

type ShopChallanInput struct {
	ShopName      string             `json:"shopName" validate:"required"`
	ContactPerson string             `json:"contactPerson"`
	Phone         string             `json:"phone" validate:"required"`
	AddressID     string             `json:"addressId"`
	Penalty       decimal.Decimal    `json:"penalty" validate:"gt=0"`
	Reason        string             `json:"reason" validate:"required"`
	PaymentType   models.PaymentType `json:"paymentType" validate:"required,oneof=cash online"`
	Remarks       string             `json:"remarks"`
}

func (s *Service) CreatePersonChallan(ctx context.Context, uid string, in PersonChallanInput) (*models.Challan, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Reason = strings.TrimSpace(in.Reason)
	if err := s.check(in); err != nil {
		return nil, err
	}

	challan := &models.Challan{
		Type:        models.SubjectPerson,
		Name:        in.Name,
		Phone:       in.Phone,
		Penalty:     in.Penalty,
		Reason:      in.Reason,
		Remarks:     strings.TrimSpace(in.Remarks),
		PaymentType: in.PaymentType,
	}
	return s.create(ctx, uid, challan)
}

func (s *Service) CreateShopChallan(ctx context.Context, uid string, in ShopChallanInput) (*models.Challan, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	in.ShopName = strings.TrimSpace(in.ShopName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Reason = strings.TrimSpace(in.Reason)
	in.AddressID = strings.TrimSpace(in.AddressID)
	if err := s.check(in); err != nil {
		return nil, err
	}

	challan := &models.Challan{
		Type:          models.SubjectShop,
		ShopName:      in.ShopName,
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         in.Phone,
		Penalty:       in.Penalty,
		Reason:        in.Reason,
		Remarks:       strings.TrimSpace(in.Remarks),
		PaymentType:   in.PaymentType,
	}

	if in.AddressID != "" {
		addressID := in.AddressID
		challan.AddressID = &addressID

		address, err := s.store.GetAddress(ctx, addressID)
		switch {
		case err == nil:
			challan.AddressText = address.Text()
		case errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("shop challan references unknown address", zap.String("address_id", addressID))
		default:
			return nil, s.fail("Failed to resolve address.", err, zap.String("address_id", addressID))
		}
	}

	return s.create(ctx, uid, challan)
}

// create persists the challan under a fresh id, retrying on id collisions,
// then renders its QR code. A QR failure leaves qrStatus pending and is not
// reported to the caller.
func (s *Service) create(ctx context.Context, uid string, challan *models.Challan) (*models.Challan, error) {
	challan.UserID = uid
	challan.PaymentStatus = models.PaymentStatusPending
	challan.QRStatus = models.QRStatusPending
	challan.CreatedAt = s.timestamp()

	var stored bool
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := s.newID(challan.Type)
		if err != nil {
			return nil, s.fail("Failed to generate challan id.", err)
		}
		challan.ChallanID = id

		err = s.store.CreateChallan(ctx, challan)
		if err == nil {
			stored = true
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, s.fail("Failed to create challan.", err, zap.String("challan_id", id))
		}
		s.logger.Warn("challan id collision", zap.String("challan_id", id), zap.Int("attempt", attempt))
	}
	if !stored {
		return nil, apperr.New(apperr.Internal, "Failed to allocate a unique challan id.")
	}

	s.logger.Info("challan created",
		zap.String("challan_id", challan.ChallanID),
		zap.String("type", string(challan.Type)),
		zap.String("user_id", uid),
	)

	if url, err := s.publishQR(ctx, challan); err != nil {
		s.logger.Error("qr code generation failed, challan left with qrStatus pending",
			zap.String("challan_id", challan.ChallanID),
			zap.Error(err),
		)
	} else {
		challan.QRCodeURL = url
		challan.QRStatus = models.QRStatusReady
	}
	return challan, nil
}
