package middleware

import (
	"net/http"

	"wsid/models"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware rejects callers whose token does not carry the admin
// role. It must run after JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != models.RoleAdmin {
			utils.Error(c, http.StatusForbidden, utils.MsgUnauthorisedAccess)
			c.Abort()
			return
		}
		c.Next()
	}
}
