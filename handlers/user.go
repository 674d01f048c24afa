package handlers

import (
	"net/http"

	"wsid/middleware"
	"wsid/services/profile"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

// TrendingUsersHandler returns users ranked by social traction.
func TrendingUsersHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := svc.TrendingUsers(c.GetString(middleware.CtxUserID), queryInt(c, "limit", 10))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, results, utils.MsgSuccess)
	}
}

// SearchUsersHandler prefix-matches users by name, username and email.
func SearchUsersHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := svc.SearchUsers(c.Query("q"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, results, utils.MsgSuccess)
	}
}

// ViewProfileHandler returns a profile with counters and viewer state.
func ViewProfileHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.ViewProfile(c.Param("userId"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}

// EditProfileHandler updates the caller's profile from a multipart form.
func EditProfileHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := profile.EditInput{
			Name:        c.PostForm("name"),
			Bio:         c.PostForm("bio"),
			DateOfBirth: c.PostForm("dateOfBirth"),
		}
		if fh, err := c.FormFile("profilePic"); err == nil {
			path, err := utils.SaveUploadedImage(c, fh)
			if err != nil {
				utils.RespondError(c, err)
				return
			}
			input.ProfilePicPath = path
		}

		updated, err := svc.EditProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), input)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, updated, utils.MsgSuccess)
	}
}

// FollowUserHandler toggles a follow edge.
func FollowUserHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		following, err := svc.ToggleFollow(c.GetString(middleware.CtxUserID), c.Param("userId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, gin.H{"following": following}, utils.MsgSuccess)
	}
}

// LikeUserHandler toggles a profile like.
func LikeUserHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		liked, err := svc.ToggleLike(c.GetString(middleware.CtxUserID), c.Param("userId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, gin.H{"liked": liked}, utils.MsgSuccess)
	}
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccountHandler soft-deletes the caller's account.
func DeleteAccountHandler(svc profile.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deleteAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		if err := svc.DeleteSelf(c.Request.Context(), c.GetString(middleware.CtxUserID), req.Password); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgSuccess)
	}
}
