package identity

import (
	"context"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// GoogleVerifier accepts Google Sign-In ID tokens issued for ClientID. The
// Google subject becomes the user id.
type GoogleVerifier struct {
	ClientID string
}

func (g GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if g.ClientID == "" {
		return nil, fmt.Errorf("%w: google sign-in not configured", ErrInvalidToken)
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(token, []string{g.ClientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Identity{UID: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}
