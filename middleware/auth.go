package middleware

import (
	"net/http"
	"strings"

	"wsid/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuthMiddleware requires a valid bearer access token and places the
// caller's identity into the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Error(c, http.StatusUnauthorized, utils.MsgAccessTokenRequired)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			utils.Error(c, http.StatusUnauthorized, utils.MsgAccessTokenRequired)
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(tokenString)
		if err != nil {
			utils.Error(c, http.StatusForbidden, utils.MsgExpiredToken)
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware decodes a bearer token when present but lets
// anonymous requests through. Public feeds use it to personalize views.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ParseAccessToken(tokenString); err == nil {
				c.Set(CtxUserID, claims.UID)
				c.Set(CtxEmail, claims.Email)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}
