package auth

import (
	"context"

	regRepo "wsid/database/repository/registration"
	tokenRepo "wsid/database/repository/token"
	userRepo "wsid/database/repository/user"
	"wsid/models"
	"wsid/services/storage"
	"wsid/utils"
)

// AuthResponse carries the user and session tokens returned by login,
// registration finalization and social sign-in.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type AuthService interface {
	// Registration (three-step OTP flow)
	RegisterStep1(email, name, dateOfBirth string) error
	VerifyOTP(email, otp string) (alreadyVerified bool, err error)
	ResendOTP(email string) error
	// RegisterStep3 finalizes registration. The profile picture is optional
	// and best-effort: an upload failure is logged, not surfaced.
	RegisterStep3(ctx context.Context, email, username, password, bio, profilePicPath string) (*AuthResponse, error)
	CheckUsername(username string) (available bool, suggestions []string, err error)

	// Sessions
	Login(identifier, password string, adminOnly bool) (*AuthResponse, error)
	Refresh(refreshToken string) (accessToken string, err error)
	Logout(userID, refreshToken string) error
	SocialSignIn(ctx context.Context, idToken, provider string) (*AuthResponse, error)

	// Password recovery
	ForgotPassword(email string) error
	ResetPassword(email, otp, newPassword string) error
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Users    userRepo.UserRepository
	Pending  regRepo.RegistrationRepository
	Tokens   tokenRepo.TokenRepository
	Mailer   utils.Mailer
	Verifier TokenVerifier
	Storage  storage.StorageService
}
