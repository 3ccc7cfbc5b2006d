// Package identity turns a caller's bearer token into a stable user id.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

type Identity struct {
	UID   string
	Phone string
	Email string
	Name  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Chain accepts a token as soon as one verifier does.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	err := ErrInvalidToken
	for _, v := range c {
		var id *Identity
		id, err = v.Verify(ctx, token)
		if err == nil {
			return id, nil
		}
	}
	return nil, err
}
