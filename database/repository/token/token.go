package tokenRepo

import "wsid/models"

// TokenRepository persists issued refresh tokens (by hash) so logout can
// revoke them server-side.
type TokenRepository interface {
	// Save stores a refresh token row.
	Save(token *models.RefreshToken) error
	// Exists reports whether a token hash is still present (not revoked).
	Exists(tokenHash string) (bool, error)
	// DeleteByUser removes every stored token row for the user.
	DeleteByUser(userID string) error
}
