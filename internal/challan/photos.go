package challan

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "golang.org/x/image/webp"
)

const photoJPEGQuality = 85

func PhotoKey(challanID, photoID string) string {
	return fmt.Sprintf("challan-photos/%s/%s.jpg", challanID, photoID)
}

// normalizePhoto decodes an uploaded photo, applies its EXIF orientation and
// re-encodes it as JPEG.
func normalizePhoto(encoded string) ([]byte, error) {
	file, err := helpers.DecodeBase64File(encoded)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("not a readable %s image", file.MimeType)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(photoJPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AttachPhotos validates every photo before storing any of them. Photos
// stored before a mid-batch failure stay attached.
func (s *Service) AttachPhotos(ctx context.Context, uid, challanID string, photos []string) ([]string, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, apperr.New(apperr.InvalidArgument, "At least one photo is required.")
	}

	challan, err := s.getChallan(ctx, challanID)
	if err != nil {
		return nil, err
	}

	normalized := make([][]byte, len(photos))
	for i, encoded := range photos {
		data, err := normalizePhoto(encoded)
		if err != nil {
			return nil, apperr.Wrap(apperr.InvalidArgument, fmt.Sprintf("Photo %d: %v", i+1, err), err)
		}
		normalized[i] = data
	}

	photoURLs := make([]string, 0, len(normalized))
	for _, data := range normalized {
		photoID := uuid.New().String()
		key := PhotoKey(challan.ChallanID, photoID)
		url, err := s.blobs.Put(ctx, key, data, "image/jpeg")
		if err != nil {
			return nil, s.fail("Failed to store photo.", err,
				zap.String("challan_id", challan.ChallanID),
				zap.Int("stored", len(photoURLs)),
			)
		}

		photo := &models.ChallanPhoto{
			ChallanID: challan.ChallanID,
			PhotoURL:  url,
			PhotoID:   photoID,
			CreatedAt: s.timestamp(),
		}
		if err := s.appendPhoto(ctx, photo); err != nil {
			if derr := s.blobs.Delete(ctx, key); derr != nil {
				s.logger.Warn("failed to remove orphaned photo", zap.String("key", key), zap.Error(derr))
			}
			return nil, s.fail("Failed to save photo.", err,
				zap.String("challan_id", challan.ChallanID),
				zap.String("photo_id", photoID),
			)
		}
		photoURLs = append(photoURLs, url)
	}

	s.logger.Info("photos attached", zap.String("challan_id", challan.ChallanID), zap.Int("count", len(photoURLs)))
	return photoURLs, nil
}

// appendPhoto stores photo at the next free index. (challanId, index) is
// unique, so an upload racing for the same index recounts and tries again.
func (s *Service) appendPhoto(ctx context.Context, photo *models.ChallanPhoto) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		var n int
		n, err = s.store.CountPhotos(ctx, photo.ChallanID)
		if err != nil {
			return err
		}
		photo.Index = n
		err = s.store.CreatePhoto(ctx, photo)
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return err
}
