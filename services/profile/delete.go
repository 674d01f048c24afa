package profile

import (
	"context"
	"net/http"
	"time"

	postRepo "wsid/database/repository/post"
	"wsid/models"
	"wsid/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DeleteSelf soft-deletes the caller's account after reconfirming their
// password, then scrubs their sessions, social edges and content.
func (s *DefaultProfileService) DeleteSelf(ctx context.Context, userID, password string) error {
	user, err := s.activeUser(userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return utils.NewServiceError(http.StatusUnauthorized, utils.MsgInvalidCredentials)
	}
	return s.removeAccount(ctx, user)
}

// AdminDeleteUser soft-deletes any non-admin account and scrubs its traces.
func (s *DefaultProfileService) AdminDeleteUser(ctx context.Context, targetID string) error {
	user, err := s.activeUser(targetID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}
	return s.removeAccount(ctx, user)
}

// removeAccount marks the user inactive and sweeps everything keyed to
// them. Posts go through the post service so option media, votes and
// comment trees are cleaned up the same way a direct delete would.
func (s *DefaultProfileService) removeAccount(ctx context.Context, user *models.User) error {
	logger := utils.GetLogger()

	if err := s.Users.SetFields(user.ID, map[string]interface{}{
		"status":    false,
		"updatedAt": time.Now(),
	}); err != nil {
		return err
	}

	if err := s.Tokens.DeleteByUser(user.ID); err != nil {
		logger.Warn("failed to revoke sessions", zap.String("userId", user.ID), zap.Error(err))
	}
	if err := s.Pending.DeleteByEmail(user.Email); err != nil {
		logger.Warn("failed to clear pending registration", zap.String("userId", user.ID), zap.Error(err))
	}
	if err := s.Social.DeleteAllForUser(user.ID); err != nil {
		logger.Warn("failed to clear social edges", zap.String("userId", user.ID), zap.Error(err))
	}

	// Own posts first: this also removes their options, media, votes and
	// comment trees.
	for {
		// Deleting shrinks the result set, so always read the first page.
		listing, err := s.PostSvc.List(postRepo.ListQuery{CreatedBy: user.ID, Page: 1, PageSize: 50}, "")
		if err != nil {
			return err
		}
		if len(listing.Posts) == 0 {
			break
		}
		deleted := 0
		for _, p := range listing.Posts {
			if err := s.PostSvc.Delete(ctx, p.ID, user.ID, user.Role); err != nil {
				logger.Warn("failed to delete post during account removal",
					zap.String("userId", user.ID), zap.String("postId", p.ID), zap.Error(err))
				continue
			}
			deleted++
		}
		if deleted == 0 {
			break
		}
	}

	// Then traces on other people's content.
	if err := s.Votes.DeleteByUser(user.ID); err != nil {
		logger.Warn("failed to delete votes", zap.String("userId", user.ID), zap.Error(err))
	}
	if err := s.Comments.DeleteByCreator(user.ID); err != nil {
		logger.Warn("failed to delete comments", zap.String("userId", user.ID), zap.Error(err))
	}

	if user.ProfilePicURL != "" {
		if err := s.Storage.DeleteFile(ctx, user.ProfilePicURL); err != nil {
			logger.Warn("failed to delete profile picture", zap.String("userId", user.ID), zap.Error(err))
		}
	}
	return nil
}

// AdminListUsers returns every account, active or not.
func (s *DefaultProfileService) AdminListUsers() ([]models.User, error) {
	return s.Users.GetAll()
}
