package helpers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
}

var (
	DefaultImageUploadConfig = UploadConfig{
		MaxSizeBytes: 5 * 1024 * 1024, // 5MB
		AllowedMimeTypes: []string{
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/webp",
		},
	}

	ErrEmptyUpload   = errors.New("file is empty")
	ErrInvalidBase64 = errors.New("file is not valid base64")
)

// DecodedFile is an upload whose content type was sniffed from its bytes.
type DecodedFile struct {
	Data     []byte
	MimeType string
}

// DecodeBase64File accepts raw base64 or a data URL such as
// "data:image/png;base64,...". The declared type of a data URL is ignored in
// favour of the sniffed one.
func DecodeBase64File(encoded string, configs ...UploadConfig) (*DecodedFile, error) {
	config := DefaultImageUploadConfig
	if len(configs) > 0 {
		config = configs[0]
	}

	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, ErrInvalidBase64
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, ErrEmptyUpload
	}

	if int64(base64.StdEncoding.DecodedLen(len(payload))) > config.MaxSizeBytes+3 {
		return nil, fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, ErrInvalidBase64
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(data)) > config.MaxSizeBytes {
		return nil, fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	mimeType := mimetype.Detect(data).String()
	mimeTypeAllowed := false
	for _, allowedType := range config.AllowedMimeTypes {
		if mimeType == allowedType {
			mimeTypeAllowed = true
			break
		}
	}
	if !mimeTypeAllowed {
		return nil, fmt.Errorf("invalid file type. Allowed types: %v", config.AllowedMimeTypes)
	}

	return &DecodedFile{Data: data, MimeType: mimeType}, nil
}
