package models

import "time"

// PendingRegistration is the temp record backing the OTP registration
// workflow. It is keyed by email: a later step-1 submission for the same
// address replaces the record wholesale, which also clears OTPVerified.
type PendingRegistration struct {
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	DateOfBirth  string    `bson:"dateOfBirth" json:"dateOfBirth"`
	OTP          string    `bson:"otp" json:"-"`
	OTPExpiresAt time.Time `bson:"otpExpiresAt" json:"-"`
	OTPSentCount int       `bson:"otpSentCount" json:"-"`
	OTPVerified  bool      `bson:"otpVerified" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"-"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"-"`
}

// RefreshToken is a persisted, revocation-capable session row. Only the
// SHA-256 hash of the issued token is stored.
type RefreshToken struct {
	TokenHash string    `bson:"tokenHash" json:"-"`
	UserID    string    `bson:"userId" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}
