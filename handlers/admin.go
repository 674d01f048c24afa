package handlers

import (
	"wsid/services/profile"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

// AdminListUsersHandler returns every account for the admin console.
func AdminListUsersHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.AdminListUsers()
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, users, utils.MsgSuccess)
	}
}

// AdminDeleteUserHandler soft-deletes a non-admin account.
func AdminDeleteUserHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.AdminDeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgSuccess)
	}
}
