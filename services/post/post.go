package post

import (
	"context"
	"net/http"
	"strings"
	"time"

	postRepo "wsid/database/repository/post"
	"wsid/models"
	"wsid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minOptions = 2

// Create publishes a new poll post. Uploaded temp files are pushed to
// storage and removed locally whatever the outcome.
func (s *DefaultPostService) Create(ctx context.Context, userID, title, description string, imagePaths []string, options []OptionInput) (*PostView, error) {
	defer removeTempFiles(imagePaths, options)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, utils.NewServiceError(http.StatusBadRequest, "title is required")
	}
	if len(options) < minOptions {
		return nil, utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
	}
	for _, opt := range options {
		if strings.TrimSpace(opt.Text) == "" {
			return nil, utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
		}
	}

	imageURLs := make([]string, 0, len(imagePaths))
	for _, path := range imagePaths {
		url, err := s.Storage.UploadFile(ctx, path, "posts")
		if err != nil {
			return nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	now := time.Now()
	post := &models.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Images:      imageURLs,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Posts.Create(post); err != nil {
		return nil, err
	}

	for _, opt := range options {
		optionURL := ""
		if opt.ImagePath != "" {
			url, err := s.Storage.UploadFile(ctx, opt.ImagePath, "options")
			if err != nil {
				return nil, err
			}
			optionURL = url
		}
		if err := s.Posts.CreateOption(&models.Option{
			ID:       uuid.NewString(),
			PostID:   post.ID,
			Text:     strings.TrimSpace(opt.Text),
			ImageURL: optionURL,
		}); err != nil {
			return nil, err
		}
	}
	return s.GetByID(post.ID, userID)
}

// Update edits title and description, adds and removes images, and applies
// option changes. Only the author or an admin may edit.
func (s *DefaultPostService) Update(ctx context.Context, postID, userID, role string, input UpdateInput) (*PostView, error) {
	temp := append([]string{}, input.ImagePaths...)
	for _, opt := range input.Options {
		temp = append(temp, opt.ImagePath)
	}
	defer removeTempFiles(temp, nil)

	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}
	if post.CreatedBy != userID && role != models.RoleAdmin {
		return nil, utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}

	fields := map[string]interface{}{"updatedAt": time.Now()}
	if title := strings.TrimSpace(input.Title); title != "" {
		fields["title"] = title
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		fields["description"] = desc
	}

	if len(input.ImagePaths) > 0 || len(input.RemoveImages) > 0 {
		images := make([]string, 0, len(post.Images)+len(input.ImagePaths))
		logger := utils.GetLogger()
		for _, url := range post.Images {
			if contains(input.RemoveImages, url) {
				if err := s.Storage.DeleteFile(ctx, url); err != nil {
					logger.Warn("failed to delete post image", zap.String("postId", postID), zap.Error(err))
				}
				continue
			}
			images = append(images, url)
		}
		for _, path := range input.ImagePaths {
			url, err := s.Storage.UploadFile(ctx, path, "posts")
			if err != nil {
				return nil, err
			}
			images = append(images, url)
		}
		fields["images"] = images
	}

	if len(input.Options) > 0 {
		if err := s.applyOptionUpdates(ctx, postID, input.Options); err != nil {
			return nil, err
		}
	}

	if err := s.Posts.SetFields(postID, fields); err != nil {
		return nil, err
	}
	return s.GetByID(postID, userID)
}

// applyOptionUpdates adds, edits and removes options. Removals keep at least
// the minimum option count and take their votes and image with them.
func (s *DefaultPostService) applyOptionUpdates(ctx context.Context, postID string, updates []OptionUpdate) error {
	current, err := s.Posts.OptionsByPost(postID)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Option, len(current))
	for _, opt := range current {
		byID[opt.ID] = opt
	}
	remaining := len(current)
	logger := utils.GetLogger()

	for _, upd := range updates {
		switch {
		case upd.Remove:
			opt, ok := byID[upd.ID]
			if !ok {
				return utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
			}
			if remaining <= minOptions {
				return utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
			}
			if opt.ImageURL != "" {
				if err := s.Storage.DeleteFile(ctx, opt.ImageURL); err != nil {
					logger.Warn("failed to delete option image", zap.String("optionId", opt.ID), zap.Error(err))
				}
			}
			if err := s.Votes.DeleteByOption(opt.ID); err != nil {
				return err
			}
			if err := s.Posts.DeleteOption(opt.ID); err != nil {
				return err
			}
			delete(byID, opt.ID)
			remaining--

		case upd.ID == "":
			text := strings.TrimSpace(upd.Text)
			if text == "" {
				return utils.NewServiceError(http.StatusBadRequest, utils.MsgInvalidOptionsFormat)
			}
			imageURL := ""
			if upd.ImagePath != "" {
				url, err := s.Storage.UploadFile(ctx, upd.ImagePath, "options")
				if err != nil {
					return err
				}
				imageURL = url
			}
			if err := s.Posts.CreateOption(&models.Option{
				ID:       uuid.NewString(),
				PostID:   postID,
				Text:     text,
				ImageURL: imageURL,
			}); err != nil {
				return err
			}
			remaining++

		default:
			opt, ok := byID[upd.ID]
			if !ok {
				return utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
			}
			fields := map[string]interface{}{}
			if text := strings.TrimSpace(upd.Text); text != "" {
				fields["text"] = text
			}
			if upd.ImagePath != "" {
				url, err := s.Storage.UploadFile(ctx, upd.ImagePath, "options")
				if err != nil {
					return err
				}
				if opt.ImageURL != "" {
					if err := s.Storage.DeleteFile(ctx, opt.ImageURL); err != nil {
						logger.Warn("failed to delete option image", zap.String("optionId", opt.ID), zap.Error(err))
					}
				}
				fields["imageUrl"] = url
			}
			if len(fields) == 0 {
				continue
			}
			if err := s.Posts.SetOptionFields(opt.ID, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Delete removes a post and everything hanging off it: options, media,
// votes and comments.
func (s *DefaultPostService) Delete(ctx context.Context, postID, userID, role string) error {
	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}
	if post.CreatedBy != userID && role != models.RoleAdmin {
		return utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}

	options, err := s.Posts.OptionsByPost(postID)
	if err != nil {
		return err
	}
	logger := utils.GetLogger()
	for _, opt := range options {
		if opt.ImageURL == "" {
			continue
		}
		if err := s.Storage.DeleteFile(ctx, opt.ImageURL); err != nil {
			logger.Warn("failed to delete option image", zap.String("optionId", opt.ID), zap.Error(err))
		}
	}
	for _, url := range post.Images {
		if err := s.Storage.DeleteFile(ctx, url); err != nil {
			logger.Warn("failed to delete post image", zap.String("postId", postID), zap.Error(err))
		}
	}

	if err := s.Posts.DeleteOptionsByPost(postID); err != nil {
		return err
	}
	if err := s.Votes.DeleteByPost(postID); err != nil {
		return err
	}
	if err := s.Comments.DeleteByPost(postID); err != nil {
		return err
	}
	return s.Posts.Delete(postID)
}

// GetByID returns a single decorated post.
func (s *DefaultPostService) GetByID(postID, viewerID string) (*PostView, error) {
	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}
	views, err := s.decorate([]models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns one page of posts, decorated for the viewer.
func (s *DefaultPostService) List(q postRepo.ListQuery, viewerID string) (*PostPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	posts, total, err := s.Posts.List(q)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: views, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

const minSearchLength = 3

// Search returns posts whose title starts with the given prefix. Queries
// under three characters match nothing.
func (s *DefaultPostService) Search(prefix, viewerID string) ([]PostView, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minSearchLength {
		return []PostView{}, nil
	}
	posts, err := s.Posts.SearchByTitle(prefix)
	if err != nil {
		return nil, err
	}
	return s.decorate(posts, viewerID)
}
