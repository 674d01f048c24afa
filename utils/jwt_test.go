package utils

import (
	"testing"

	"wsid/config"
)

func init() {
	config.AppConfig.JWTSecret = "test-access-secret"
	config.AppConfig.RefreshSecret = "test-refresh-secret"
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "user@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.UID != "user-1" || claims.Email != "user@example.com" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	uid, email, err := ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if uid != "user-1" || email != "user@example.com" {
		t.Errorf("uid=%q email=%q", uid, email)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	access, err := GenerateAccessToken("user-1", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	refresh, err := GenerateRefreshToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	// Each token type is signed with its own secret.
	if _, _, err := ParseRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := ParseAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseAccessToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}

	if _, err := ParseAccessToken("not-a-token"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	if a != b {
		t.Error("hashing is not deterministic")
	}
	if a == c {
		t.Error("distinct tokens hash identically")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
