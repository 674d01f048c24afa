package auth

import (
	"context"
	"fmt"

	"wsid/utils"
)

// Identity is the subset of identity-provider claims sign-in needs.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates an identity provider ID token.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// FirebaseVerifier verifies ID tokens against the configured Firebase project.
type FirebaseVerifier struct{}

func NewFirebaseVerifier() *FirebaseVerifier {
	return &FirebaseVerifier{}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	client := utils.GetAuthClient()
	if client == nil {
		return nil, fmt.Errorf("firebase auth client not initialized")
	}
	token, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	identity := &Identity{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		identity.Picture = v
	}
	return identity, nil
}
