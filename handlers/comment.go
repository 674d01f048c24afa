package handlers

import (
	"net/http"

	"wsid/middleware"
	"wsid/services/comment"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	PostID   string `json:"postId" binding:"required"`
	ParentID string `json:"parentId"`
	Text     string `json:"text" binding:"required"`
}

// CreateCommentHandler adds a comment or a reply.
func CreateCommentHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		created, err := svc.Create(req.PostID, req.ParentID, req.Text, c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, created, utils.MsgSuccess)
	}
}

type updateCommentRequest struct {
	Text string `json:"text"`
}

// UpdateCommentHandler edits a comment's text (author only).
func UpdateCommentHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		updated, err := svc.Update(c.Param("id"), c.GetString(middleware.CtxUserID), req.Text)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, updated, utils.MsgSuccess)
	}
}

// DeleteCommentHandler removes a comment and its reply subtree.
func DeleteCommentHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Delete(c.Param("id"), c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxRole))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgSuccess)
	}
}

// GetCommentsHandler returns a post's comment tree for the viewer.
func GetCommentsHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := svc.GetTree(c.Param("postId"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, tree, utils.MsgSuccess)
	}
}

// LikeCommentHandler toggles the caller's like on a comment.
func LikeCommentHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := svc.Like(c.Param("id"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, updated, utils.MsgSuccess)
	}
}

// DislikeCommentHandler toggles the caller's dislike on a comment.
func DislikeCommentHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := svc.Dislike(c.Param("id"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, updated, utils.MsgSuccess)
	}
}

// CommentReactionsHandler lists who liked or disliked a comment. The type
// segment selects "likes", "dislikes" or "all".
func CommentReactionsHandler(svc comment.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := svc.ReactionDetails(c.Param("commentId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		switch c.Param("type") {
		case "likes":
			utils.Success(c, gin.H{"likes": details.Likes}, utils.MsgSuccess)
		case "dislikes":
			utils.Success(c, gin.H{"dislikes": details.Dislikes}, utils.MsgSuccess)
		case "all":
			utils.Success(c, details, utils.MsgSuccess)
		default:
			utils.Error(c, http.StatusBadRequest, "type must be likes, dislikes or all")
		}
	}
}
