package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"wsid/config"

	"github.com/golang-jwt/jwt"
)

// Access tokens are short-lived; refresh tokens are long-lived and persisted
// server-side so they can be revoked at logout.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims are the decoded claims of a verified access token.
type AccessClaims struct {
	UID   string
	Email string
	Role  string
}

// GenerateAccessToken creates a signed access token carrying uid, email and role.
func GenerateAccessToken(uid, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   uid,
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(AccessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// GenerateRefreshToken creates a signed refresh token with the dedicated secret.
func GenerateRefreshToken(uid, email string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   uid,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(RefreshTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.RefreshSecret))
}

func parseWithSecret(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseAccessToken validates an access token and returns its claims.
func ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims, err := parseWithSecret(tokenString, config.AppConfig.JWTSecret)
	if err != nil {
		return nil, err
	}
	uid, _ := claims["uid"].(string)
	if uid == "" {
		return nil, errors.New("token does not contain a valid 'uid' claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &AccessClaims{UID: uid, Email: email, Role: role}, nil
}

// ParseRefreshToken validates a refresh token and returns the embedded uid and email.
func ParseRefreshToken(tokenString string) (uid, email string, err error) {
	claims, err := parseWithSecret(tokenString, config.AppConfig.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	uid, _ = claims["uid"].(string)
	if uid == "" {
		return "", "", errors.New("token does not contain a valid 'uid' claim")
	}
	email, _ = claims["email"].(string)
	return uid, email, nil
}

// HashToken computes a SHA-256 hash of the token string. Refresh tokens are
// stored by hash only.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
