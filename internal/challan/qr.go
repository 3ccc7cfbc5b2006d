package challan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrImageSize = 256

// QRPayload is the JSON encoded into a challan's QR image.
type QRPayload struct {
	ChallanID string             `json:"challanId"`
	Type      models.SubjectType `json:"type"`
	Amount    decimal.Decimal    `json:"amount"`
	Timestamp int64              `json:"timestamp"`
	Signature string             `json:"sig"`
}

func (p QRPayload) fields() []string {
	return []string{p.ChallanID, string(p.Type), p.Amount.String(), strconv.FormatInt(p.Timestamp, 10)}
}

func QRKey(challanID string) string {
	return fmt.Sprintf("qr-codes/%s.png", challanID)
}

func (s *Service) qrPayload(challan *models.Challan) QRPayload {
	payload := QRPayload{
		ChallanID: challan.ChallanID,
		Type:      challan.Type,
		Amount:    challan.Penalty,
		Timestamp: s.now().UnixMilli(),
	}
	if s.signer != nil {
		payload.Signature = s.signer.Sign(payload.fields()...)
	}
	return payload
}

// publishQR renders and uploads the QR image, then flips qrStatus to ready.
func (s *Service) publishQR(ctx context.Context, challan *models.Challan) (string, error) {
	data, err := json.Marshal(s.qrPayload(challan))
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	url, err := s.blobs.Put(ctx, QRKey(challan.ChallanID), png, "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload qr code: %w", err)
	}

	if err := s.store.SetChallanQR(ctx, challan.ChallanID, url, models.QRStatusReady); err != nil {
		return "", fmt.Errorf("failed to save qr code url: %w", err)
	}
	return url, nil
}

// RegenerateQR re-renders the QR image, typically for a challan whose first
// attempt left qrStatus pending.
func (s *Service) RegenerateQR(ctx context.Context, uid, challanID string) (string, error) {
	if err := requireCaller(uid); err != nil {
		return "", err
	}

	challan, err := s.getChallan(ctx, challanID)
	if err != nil {
		return "", err
	}

	url, err := s.publishQR(ctx, challan)
	if err != nil {
		return "", s.fail("Failed to generate QR code.", err, zap.String("challan_id", challanID))
	}
	return url, nil
}

// ValidateQR checks the signature of a scanned payload and returns the
// challan it refers to.
func (s *Service) ValidateQR(ctx context.Context, uid, data string) (*models.Challan, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	var payload QRPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &payload); err != nil || payload.ChallanID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Invalid QR code format.")
	}
	if s.signer == nil || !s.signer.Verify(payload.Signature, payload.fields()...) {
		return nil, apperr.New(apperr.PermissionDenied, "Invalid QR code signature.")
	}

	challan, err := s.getChallan(ctx, payload.ChallanID)
	if err != nil {
		return nil, err
	}
	if challan.Type != payload.Type || !challan.Penalty.Equal(payload.Amount) {
		return nil, apperr.New(apperr.PermissionDenied, "QR code does not match the challan.")
	}
	return challan, nil
}

func (s *Service) getChallan(ctx context.Context, challanID string) (*models.Challan, error) {
	challanID = strings.TrimSpace(challanID)
	if challanID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "challanId is required")
	}

	challan, err := s.store.GetChallan(ctx, challanID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Challan not found.")
	}
	if err != nil {
		return nil, s.fail("Failed to load challan.", err, zap.String("challan_id", challanID))
	}
	return challan, nil
}
