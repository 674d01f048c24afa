package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wsid/models"
	"wsid/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// issueTokens opens a session: it mints an access/refresh pair, stores the
// refresh token hash for revocation, and warms the auth cache.
func (s *DefaultAuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	access, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	hash := utils.HashToken(refresh)
	if err := s.Tokens.Save(&models.RefreshToken{
		TokenHash: hash,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	s.cacheTokenHash(hash, user.ID)

	return &AuthResponse{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// cacheTokenHash is a best-effort write; the DB row remains authoritative.
func (s *DefaultAuthService) cacheTokenHash(hash, userID string) {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Set(ctx, utils.AuthCachePrefix+hash, userID, utils.RefreshTokenTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache refresh token", zap.Error(err))
	}
}

func (s *DefaultAuthService) dropCachedTokenHash(hash string) {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Del(ctx, utils.AuthCachePrefix+hash).Err(); err != nil {
		utils.GetLogger().Warn("failed to drop cached refresh token", zap.Error(err))
	}
}

// tokenHashKnown checks the auth cache first and falls back to the token
// store on a miss.
func (s *DefaultAuthService) tokenHashKnown(hash string) (bool, error) {
	if client := utils.GetAuthCacheClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := client.Get(ctx, utils.AuthCachePrefix+hash).Result(); err == nil {
			return true, nil
		}
	}
	return s.Tokens.Exists(hash)
}

// Login authenticates by email or username. Deactivated accounts are
// indistinguishable from wrong credentials.
func (s *DefaultAuthService) Login(identifier, password string, adminOnly bool) (*AuthResponse, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, utils.NewServiceError(http.StatusBadRequest, "identifier and password are required")
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.Users.GetByEmail(identifier)
	} else {
		user, err = s.Users.GetByUsername(identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Status || user.PasswordHash == "" {
		return nil, utils.NewServiceError(http.StatusUnauthorized, utils.MsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewServiceError(http.StatusUnauthorized, utils.MsgInvalidCredentials)
	}
	if adminOnly && user.Role != models.RoleAdmin {
		return nil, utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (s *DefaultAuthService) Refresh(refreshToken string) (string, error) {
	uid, email, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", utils.NewServiceError(http.StatusForbidden, utils.MsgExpiredToken)
	}
	known, err := s.tokenHashKnown(utils.HashToken(refreshToken))
	if err != nil {
		return "", err
	}
	if !known {
		return "", utils.NewServiceError(http.StatusForbidden, utils.MsgExpiredToken)
	}
	user, err := s.Users.GetByID(uid)
	if err != nil {
		return "", err
	}
	if user == nil || !user.Status {
		return "", utils.NewServiceError(http.StatusForbidden, utils.MsgExpiredToken)
	}
	return utils.GenerateAccessToken(uid, email, user.Role)
}

// Logout revokes every stored refresh token for the user and evicts the
// presented one from the cache.
func (s *DefaultAuthService) Logout(userID, refreshToken string) error {
	if refreshToken != "" {
		s.dropCachedTokenHash(utils.HashToken(refreshToken))
	}
	return s.Tokens.DeleteByUser(userID)
}

// SocialSignIn verifies an identity provider token and signs the user in,
// provisioning an account on first contact.
func (s *DefaultAuthService) SocialSignIn(ctx context.Context, idToken, provider string) (*AuthResponse, error) {
	if idToken == "" {
		return nil, utils.NewServiceError(http.StatusBadRequest, "idToken is required")
	}
	identity, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, utils.NewServiceError(http.StatusUnauthorized, utils.MsgExpiredToken)
	}
	if identity.Email == "" {
		return nil, utils.NewServiceError(http.StatusBadRequest, "identity token carries no email")
	}

	email := strings.ToLower(identity.Email)
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		now := time.Now()
		user = &models.User{
			ID:            identity.UID,
			Name:          identity.Name,
			Email:         email,
			ProfilePicURL: identity.Picture,
			Status:        true,
			Role:          models.RoleUser,
			Provider:      provider,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.Users.Create(user); err != nil {
			return nil, err
		}
	} else if !user.Status {
		return nil, utils.NewServiceError(http.StatusUnauthorized, utils.MsgInvalidCredentials)
	}
	return s.issueTokens(user)
}

// ForgotPassword sends a reset OTP to an existing account. It reuses the
// pending registration store for the OTP roundtrip.
func (s *DefaultAuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil || !user.Status {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgEmailNotFound)
	}

	otp, expiresAt, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.Pending.Upsert(&models.PendingRegistration{
		Email:        email,
		Name:         user.Name,
		OTP:          otp,
		OTPExpiresAt: expiresAt,
		OTPSentCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}
	if err := s.Mailer.SendOTP(email, otp); err != nil {
		utils.GetLogger().Error("failed to send reset OTP email", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

// ResetPassword verifies the reset OTP, rewrites the password hash and
// revokes all existing sessions.
func (s *DefaultAuthService) ResetPassword(email, otp, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	pending, err := s.Pending.GetByEmail(email)
	if err != nil {
		return err
	}
	if pending == nil {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgEmailNotFound)
	}
	if time.Now().After(pending.OTPExpiresAt) {
		return utils.NewServiceError(http.StatusBadRequest, utils.MsgOTPExpired)
	}
	if pending.OTP != otp {
		return utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOTP)
	}
	if err := verifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgUserNotFound)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Users.SetFields(user.ID, map[string]interface{}{
		"passwordHash": string(hashed),
		"updatedAt":    time.Now(),
	}); err != nil {
		return err
	}
	if err := s.Pending.DeleteByEmail(email); err != nil {
		utils.GetLogger().Warn("failed to clear reset OTP record", zap.String("email", email), zap.Error(err))
	}
	return s.Tokens.DeleteByUser(user.ID)
}
