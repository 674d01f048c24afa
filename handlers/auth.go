package handlers

import (
	"net/http"

	"wsid/middleware"
	"wsid/services/auth"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

type registerStep1Request struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"dateOfBirth"`
}

// RegisterStep1Handler starts the OTP registration flow.
func RegisterStep1Handler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerStep1Request
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.RegisterStep1(req.Email, req.Name, req.DateOfBirth); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgOTPSent)
	}
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTPHandler is registration step two.
func VerifyOTPHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		alreadyVerified, err := svc.VerifyOTP(req.Email, req.OTP)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if alreadyVerified {
			utils.Success(c, nil, utils.MsgEmailAlreadyVerified)
			return
		}
		utils.Success(c, nil, utils.MsgEmailVerified)
	}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendOTPHandler re-sends the registration OTP.
func ResendOTPHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.ResendOTP(req.Email); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgOTPSent)
	}
}

type registerStep3Request struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Bio      string `json:"bio" form:"bio"`
}

// RegisterStep3Handler finalizes registration and opens a session. Accepts
// JSON or multipart; the profile picture only travels as a multipart file.
func RegisterStep3Handler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerStep3Request
		if err := c.ShouldBind(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}

		picPath := ""
		if fh, err := c.FormFile("profilePic"); err == nil {
			path, err := utils.SaveUploadedImage(c, fh)
			if err != nil {
				utils.RespondError(c, err)
				return
			}
			picPath = path
		}

		resp, err := svc.RegisterStep3(c.Request.Context(), req.Email, req.Username, req.Password, req.Bio, picPath)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, resp, utils.MsgUserRegistered)
	}
}

// CheckUsernameHandler reports availability and suggests alternatives.
func CheckUsernameHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			utils.Error(c, http.StatusBadRequest, "username query parameter is required")
			return
		}
		available, suggestions, err := svc.CheckUsername(username)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, gin.H{
			"available":   available,
			"suggestions": suggestions,
		}, utils.MsgSuccess)
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
}

func (r loginRequest) identifier() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// LoginHandler authenticates by email or username.
func LoginHandler(svc auth.AuthService, adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		resp, err := svc.Login(req.identifier(), req.Password, adminOnly)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, resp, utils.MsgSuccess)
	}
}

type socialSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// SocialSignInHandler signs in via a verified identity-provider token.
func SocialSignInHandler(svc auth.AuthService, provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req socialSignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		resp, err := svc.SocialSignIn(c.Request.Context(), req.IDToken, provider)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, resp, utils.MsgSuccess)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshHandler exchanges a refresh token for a new access token.
func RefreshHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		access, err := svc.Refresh(req.RefreshToken)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, gin.H{"accessToken": access}, utils.MsgSuccess)
	}
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutHandler revokes the caller's sessions.
func LogoutHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req logoutRequest
		_ = c.ShouldBindJSON(&req)
		if err := svc.Logout(c.GetString(middleware.CtxUserID), req.RefreshToken); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgLogoutSuccess)
	}
}

// ForgotPasswordHandler sends a password reset OTP.
func ForgotPasswordHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.ForgotPassword(req.Email); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgPasswordResetSent)
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPasswordHandler verifies the OTP and rewrites the password.
func ResetPasswordHandler(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgPasswordResetSuccess)
	}
}
