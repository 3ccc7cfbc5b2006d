// Package blob stores QR images, evidence photos and receipts and hands back
// a public URL for each object.
package blob

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid object key")

type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
