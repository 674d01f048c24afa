package auth

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"wsid/config"
	"wsid/models"
	"wsid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)

// verifyPasswordComplexity checks that the password contains at least one
// lowercase letter, one uppercase letter, one digit, and one symbol.
func verifyPasswordComplexity(pw string) error {
	var (
		hasMinLen = len(pw) >= 8
		hasUpper  = regexp.MustCompile(`[A-Z]`).MatchString(pw)
		hasLower  = regexp.MustCompile(`[a-z]`).MatchString(pw)
		hasNumber = regexp.MustCompile(`[0-9]`).MatchString(pw)
		hasSymbol = regexp.MustCompile(`[\W_]`).MatchString(pw)
	)
	if !hasMinLen {
		return utils.NewServiceError(http.StatusBadRequest, "password must be at least 8 characters long")
	}
	if !hasUpper {
		return utils.NewServiceError(http.StatusBadRequest, "password must include at least one uppercase letter")
	}
	if !hasLower {
		return utils.NewServiceError(http.StatusBadRequest, "password must include at least one lowercase letter")
	}
	if !hasNumber {
		return utils.NewServiceError(http.StatusBadRequest, "password must include at least one number")
	}
	if !hasSymbol {
		return utils.NewServiceError(http.StatusBadRequest, "password must include at least one symbol")
	}
	return nil
}

// RegisterStep1 starts the OTP registration flow. Resubmitting the same
// email replaces the pending record, so a fresh OTP always goes out and any
// earlier verification is discarded.
func (s *DefaultAuthService) RegisterStep1(email, name, dateOfBirth string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return utils.NewServiceError(http.StatusBadRequest, "email and name are required")
	}

	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return utils.NewServiceError(http.StatusConflict, utils.MsgEmailAlreadyExists)
	}

	otp, expiresAt, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	now := time.Now()
	pending := &models.PendingRegistration{
		Email:        email,
		Name:         strings.TrimSpace(name),
		DateOfBirth:  dateOfBirth,
		OTP:          otp,
		OTPExpiresAt: expiresAt,
		OTPSentCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Pending.Upsert(pending); err != nil {
		return err
	}

	if err := s.Mailer.SendOTP(email, otp); err != nil {
		utils.GetLogger().Error("failed to send OTP email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// VerifyOTP marks the pending registration as verified. Verifying an
// already-verified email is a no-op success.
func (s *DefaultAuthService) VerifyOTP(email, otp string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	pending, err := s.Pending.GetByEmail(email)
	if err != nil {
		return false, err
	}
	if pending == nil {
		return false, utils.NewServiceError(http.StatusNotFound, utils.MsgEmailNotFound)
	}
	if pending.OTPVerified {
		return true, nil
	}
	if time.Now().After(pending.OTPExpiresAt) {
		return false, utils.NewServiceError(http.StatusBadRequest, utils.MsgOTPExpired)
	}
	if pending.OTP != otp {
		return false, utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOTP)
	}
	return false, s.Pending.SetFields(email, map[string]interface{}{
		"otpVerified": true,
		"updatedAt":   time.Now(),
	})
}

// ResendOTP issues a fresh OTP for a pending registration, bounded by the
// configured resend limit.
func (s *DefaultAuthService) ResendOTP(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	pending, err := s.Pending.GetByEmail(email)
	if err != nil {
		return err
	}
	if pending == nil {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgEmailNotFound)
	}
	if pending.OTPVerified {
		return utils.NewServiceError(http.StatusBadRequest, utils.MsgEmailAlreadyVerified)
	}
	if pending.OTPSentCount >= s.maxOTPResends() {
		return utils.NewServiceError(http.StatusTooManyRequests, utils.MsgMaxOTPResends)
	}

	otp, expiresAt, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.Pending.SetFields(email, map[string]interface{}{
		"otp":          otp,
		"otpExpiresAt": expiresAt,
		"otpSentCount": pending.OTPSentCount + 1,
		"updatedAt":    time.Now(),
	}); err != nil {
		return err
	}
	if err := s.Mailer.SendOTP(email, otp); err != nil {
		utils.GetLogger().Error("failed to send OTP email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// RegisterStep3 finalizes registration: it promotes a verified pending
// record into a user account and opens a session. The profile picture is
// optional; a failed upload is logged and registration proceeds without it.
func (s *DefaultAuthService) RegisterStep3(ctx context.Context, email, username, password, bio, profilePicPath string) (*AuthResponse, error) {
	defer func() {
		if profilePicPath != "" {
			os.Remove(profilePicPath)
		}
	}()
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))

	pending, err := s.Pending.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgEmailNotFound)
	}
	if !pending.OTPVerified {
		return nil, utils.NewServiceError(http.StatusForbidden, utils.MsgEmailNotVerified)
	}

	if !usernamePattern.MatchString(username) {
		return nil, utils.NewServiceError(http.StatusBadRequest, "username must be 3-30 characters of lowercase letters, digits, dots or underscores")
	}
	taken, err := s.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, utils.NewServiceError(http.StatusConflict, utils.MsgUsernameExists)
	}
	if err := verifyPasswordComplexity(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	picURL := ""
	if profilePicPath != "" && s.Storage != nil {
		url, err := s.Storage.UploadFile(ctx, profilePicPath, "profiles")
		if err != nil {
			utils.GetLogger().Warn("failed to upload profile picture during registration",
				zap.String("email", email), zap.Error(err))
		} else {
			picURL = url
		}
	}

	now := time.Now()
	user := &models.User{
		ID:            uuid.NewString(),
		Name:          pending.Name,
		Email:         email,
		Username:      username,
		PasswordHash:  string(hashed),
		DateOfBirth:   pending.DateOfBirth,
		Bio:           strings.TrimSpace(bio),
		ProfilePicURL: picURL,
		Status:        true,
		Role:          models.RoleUser,
		Provider:      "password",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	if err := s.Pending.DeleteByEmail(email); err != nil {
		utils.GetLogger().Warn("failed to clear pending registration", zap.String("email", email), zap.Error(err))
	}
	return s.issueTokens(user)
}

// CheckUsername reports whether a username is free and, when it is not,
// proposes a few free alternatives built from random numeric suffixes.
func (s *DefaultAuthService) CheckUsername(username string) (bool, []string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return false, nil, utils.NewServiceError(http.StatusBadRequest, "invalid username format")
	}
	existing, err := s.Users.GetByUsername(username)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		return true, nil, nil
	}
	suggestions, err := s.suggestUsernames(username, 3)
	if err != nil {
		return false, nil, err
	}
	return false, suggestions, nil
}

// suggestUsernames builds candidate names with random three-digit suffixes
// and filters out the taken ones with one batched lookup.
func (s *DefaultAuthService) suggestUsernames(base string, want int) ([]string, error) {
	candidates := make([]string, 0, want*3)
	seen := map[string]bool{}
	for len(candidates) < want*3 {
		candidate := fmt.Sprintf("%s%03d", base, rand.Intn(1000))
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		candidates = append(candidates, candidate)
	}

	taken, err := s.Users.TakenUsernames(candidates)
	if err != nil {
		return nil, err
	}
	takenSet := make(map[string]bool, len(taken))
	for _, t := range taken {
		takenSet[t] = true
	}

	suggestions := make([]string, 0, want)
	for _, candidate := range candidates {
		if takenSet[candidate] {
			continue
		}
		suggestions = append(suggestions, candidate)
		if len(suggestions) == want {
			break
		}
	}
	return suggestions, nil
}

func (s *DefaultAuthService) maxOTPResends() int {
	if n := config.AppConfig.MaxAllowedOTPResends; n > 0 {
		return n
	}
	return 3
}
