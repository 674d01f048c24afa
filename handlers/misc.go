package handlers

import (
	"net/http"

	"wsid/services/misc"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeHandler records a newsletter signup.
func SubscribeHandler(svc misc.MiscService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.Subscribe(req.Email); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgSubscriptionSuccess)
	}
}
