package utils

// Response messages shared across handlers.
const (
	MsgSuccess = "success"

	MsgOTPSent              = "OTP sent to email successfully"
	MsgInvalidOTP           = "Invalid OTP"
	MsgOTPExpired           = "OTP has expired"
	MsgEmailNotFound        = "Email not found"
	MsgEmailVerified        = "Email verified successfully"
	MsgEmailAlreadyVerified = "Email is already verified"
	MsgEmailNotVerified     = "Email not verified"
	MsgEmailAlreadyExists   = "Email already exists"
	MsgMaxOTPResends        = "Maximum OTP resend attempts reached"
	MsgUserRegistered       = "User registered successfully"
	MsgUsernameExists       = "Username already exists"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgAccessTokenRequired  = "Access token required"
	MsgExpiredToken         = "Invalid or expired token"
	MsgPasswordResetSent    = "Password reset email sent"
	MsgPasswordResetSuccess = "Password reset successful"
	MsgLogoutSuccess        = "Logout successful"

	MsgUserNotFound         = "User not found"
	MsgPostNotFound         = "Post not found"
	MsgPostsNotFound        = "No posts found"
	MsgCommentNotFound      = "Comment not found"
	MsgVoteNotFound         = "Vote not found"
	MsgAlreadyVoted         = "You have already voted on this post"
	MsgUnauthorisedAccess   = "Unauthorised access"
	MsgInvalidOptionsFormat = "Invalid options format"

	MsgAlreadySubscribed   = "Email is already subscribed"
	MsgSubscriptionSuccess = "Subscribed successfully"
)

// Auth cache key prefix for Redis.
const AuthCachePrefix = "auth:"
