package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	postRepo "wsid/database/repository/post"
	"wsid/middleware"
	"wsid/services/post"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

type optionPayload struct {
	Text string `json:"text"`
}

// parseOptions decodes the "options" multipart field. Option image files
// arrive under "optionImages" and pair with options by position.
func parseOptions(c *gin.Context, raw string) ([]post.OptionInput, error) {
	var payload []optionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
	}

	options := make([]post.OptionInput, len(payload))
	for i, p := range payload {
		options[i] = post.OptionInput{Text: p.Text}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return options, nil
	}
	for i, fh := range form.File["optionImages"] {
		if i >= len(options) {
			break
		}
		path, err := utils.SaveUploadedImage(c, fh)
		if err != nil {
			return nil, err
		}
		options[i].ImagePath = path
	}
	return options, nil
}

func savedImages(c *gin.Context, field string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	paths := make([]string, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		path, err := utils.SaveUploadedImage(c, fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CreatePostHandler publishes a new poll post from a multipart form.
func CreatePostHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		description := c.PostForm("description")

		options, err := parseOptions(c, c.PostForm("options"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		images, err := savedImages(c, "images")
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		view, err := svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), title, description, images, options)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}

type optionUpdatePayload struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Remove bool   `json:"remove"`
}

// parseOptionUpdates decodes the "options" multipart field of an update.
// Replacement/new option images arrive under "optionImages" and pair with
// the entries by position.
func parseOptionUpdates(c *gin.Context, raw string) ([]post.OptionUpdate, error) {
	if raw == "" {
		return nil, nil
	}
	var payload []optionUpdatePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
	}

	updates := make([]post.OptionUpdate, len(payload))
	for i, p := range payload {
		updates[i] = post.OptionUpdate{ID: p.ID, Text: p.Text, Remove: p.Remove}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return updates, nil
	}
	for i, fh := range form.File["optionImages"] {
		if i >= len(updates) {
			break
		}
		path, err := utils.SaveUploadedImage(c, fh)
		if err != nil {
			return nil, err
		}
		updates[i].ImagePath = path
	}
	return updates, nil
}

// UpdatePostHandler edits a post: title, description, image add/remove and
// option changes.
func UpdatePostHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		images, err := savedImages(c, "images")
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		var removeImages []string
		if raw := c.PostForm("removeImages"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &removeImages); err != nil {
				utils.Error(c, http.StatusBadRequest, "removeImages must be a JSON array of image URLs")
				return
			}
		}
		options, err := parseOptionUpdates(c, c.PostForm("options"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		view, err := svc.Update(c.Request.Context(), c.Param("id"),
			c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxRole),
			post.UpdateInput{
				Title:        c.PostForm("title"),
				Description:  c.PostForm("description"),
				ImagePaths:   images,
				RemoveImages: removeImages,
				Options:      options,
			})
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}

// DeletePostHandler removes a post and everything attached to it.
func DeletePostHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), c.Param("id"),
			c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxRole))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, nil, utils.MsgSuccess)
	}
}

func queryInt(c *gin.Context, key string, fallback int64) int64 {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// ListPostsHandler returns one page of posts. createdBy narrows to a single
// author; search filters by title prefix.
func ListPostsHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.List(postRepo.ListQuery{
			CreatedBy: c.Query("createdBy"),
			Page:      queryInt(c, "page", 1),
			PageSize:  queryInt(c, "pageSize", 10),
			SortBy:    c.DefaultQuery("sortBy", "createdAt"),
			Order:     c.DefaultQuery("order", "desc"),
			Search:    c.Query("search"),
		}, c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if page.Total == 0 {
			utils.Success(c, page, utils.MsgPostsNotFound)
			return
		}
		utils.Success(c, page, utils.MsgSuccess)
	}
}

// GetPostHandler returns a single decorated post.
func GetPostHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.GetByID(c.Param("id"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}

// SearchPostsHandler prefix-matches post titles.
func SearchPostsHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.Search(c.Query("query"), c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, views, utils.MsgSuccess)
	}
}

// TrendingPostsHandler returns posts ranked by recent activity.
func TrendingPostsHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.Trending(c.GetString(middleware.CtxUserID),
			queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, page, utils.MsgSuccess)
	}
}

type voteRequest struct {
	PostID   string `json:"postId" binding:"required"`
	OptionID string `json:"optionId" binding:"required"`
}

// CastVoteHandler records the caller's vote.
func CastVoteHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req voteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		view, err := svc.CastVote(req.PostID, req.OptionID, c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}

// RetractVoteHandler withdraws the caller's vote.
func RetractVoteHandler(svc post.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req voteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		view, err := svc.RetractVote(req.PostID, req.OptionID, c.GetString(middleware.CtxUserID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, view, utils.MsgSuccess)
	}
}
