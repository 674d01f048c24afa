package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"wsid/config"
)

// GenerateOTP returns a 6-digit numeric OTP, uniform over 100000-999999,
// together with its expiry timestamp.
func GenerateOTP() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate OTP: %w", err)
	}
	otp := fmt.Sprintf("%06d", n.Int64()+100000)
	minutes := config.AppConfig.OTPExpirationTime
	if minutes <= 0 {
		minutes = 10
	}
	expiresAt := time.Now().Add(time.Duration(minutes) * time.Minute)
	return otp, expiresAt, nil
}
