package profile

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"wsid/models"
	"wsid/utils"

	"go.uber.org/zap"
)

// activeUser fetches a user and hides soft-deleted accounts behind 404.
func (s *DefaultProfileService) activeUser(id string) (*models.User, error) {
	user, err := s.Users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Status {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgUserNotFound)
	}
	return user, nil
}

// ViewProfile returns a profile with social counters and the viewer's
// relationship to it.
func (s *DefaultProfileService) ViewProfile(targetID, viewerID string) (*ProfileView, error) {
	user, err := s.activeUser(targetID)
	if err != nil {
		return nil, err
	}

	followers, err := s.Social.CountFollowers(targetID)
	if err != nil {
		return nil, err
	}
	following, err := s.Social.CountFollowing(targetID)
	if err != nil {
		return nil, err
	}
	likes, err := s.Social.CountLikesReceived(targetID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		User:           user,
		FollowersCount: followers,
		FollowingCount: following,
		LikesCount:     likes,
	}
	if viewerID != "" && viewerID != targetID {
		follow, err := s.Social.GetFollow(viewerID, targetID)
		if err != nil {
			return nil, err
		}
		view.IsFollowing = follow != nil

		like, err := s.Social.GetLike(viewerID, targetID)
		if err != nil {
			return nil, err
		}
		view.HasLiked = like != nil
	}
	return view, nil
}

// EditProfile updates the caller's display fields. A new profile picture
// replaces the stored one, which is removed from storage best-effort.
func (s *DefaultProfileService) EditProfile(ctx context.Context, userID string, input EditInput) (*models.User, error) {
	user, err := s.activeUser(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"updatedAt": time.Now()}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if bio := strings.TrimSpace(input.Bio); bio != "" {
		fields["bio"] = bio
	}
	if dob := strings.TrimSpace(input.DateOfBirth); dob != "" {
		fields["dateOfBirth"] = dob
	}
	if input.ProfilePicPath != "" {
		url, err := s.Storage.UploadFile(ctx, input.ProfilePicPath, "profiles")
		if err != nil {
			return nil, err
		}
		if user.ProfilePicURL != "" {
			if err := s.Storage.DeleteFile(ctx, user.ProfilePicURL); err != nil {
				utils.GetLogger().Warn("failed to delete old profile picture", zap.String("userId", userID), zap.Error(err))
			}
		}
		fields["profilePicUrl"] = url
	}

	if err := s.Users.SetFields(userID, fields); err != nil {
		return nil, err
	}
	return s.Users.GetByID(userID)
}

// ToggleFollow flips the viewer's follow edge on the target.
func (s *DefaultProfileService) ToggleFollow(viewerID, targetID string) (bool, error) {
	if viewerID == targetID {
		return false, utils.NewServiceError(http.StatusBadRequest, "cannot follow yourself")
	}
	if _, err := s.activeUser(targetID); err != nil {
		return false, err
	}

	existing, err := s.Social.GetFollow(viewerID, targetID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, s.Social.DeleteFollow(viewerID, targetID)
	}
	return true, s.Social.CreateFollow(&models.Follow{
		FollowerID:  viewerID,
		FollowingID: targetID,
		FollowedAt:  time.Now(),
	})
}

// ToggleLike flips the viewer's like on the target profile.
func (s *DefaultProfileService) ToggleLike(viewerID, targetID string) (bool, error) {
	if viewerID == targetID {
		return false, utils.NewServiceError(http.StatusBadRequest, "cannot like your own profile")
	}
	if _, err := s.activeUser(targetID); err != nil {
		return false, err
	}

	existing, err := s.Social.GetLike(viewerID, targetID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, s.Social.DeleteLike(viewerID, targetID)
	}
	return true, s.Social.CreateLike(&models.ProfileLike{
		UserID:       viewerID,
		TargetUserID: targetID,
		LikedAt:      time.Now(),
	})
}

const searchLimit = 20

// SearchUsers prefix-matches name, username and email, merges the result
// sets by id and annotates each hit with the viewer's follow state.
func (s *DefaultProfileService) SearchUsers(query, viewerID string) ([]UserResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []UserResult{}, nil
	}

	merged := map[string]models.User{}
	order := []string{}
	for _, field := range []string{"name", "username", "email"} {
		users, err := s.Users.SearchPrefix(field, query, searchLimit)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.ID == viewerID {
				continue
			}
			if _, ok := merged[u.ID]; !ok {
				merged[u.ID] = u
				order = append(order, u.ID)
			}
		}
	}
	return s.annotate(merged, order, viewerID)
}

// TrendingUsers ranks active users by followers plus received profile likes.
func (s *DefaultProfileService) TrendingUsers(viewerID string, limit int64) ([]UserResult, error) {
	if limit < 1 {
		limit = 10
	}
	viewerEmail := ""
	if viewerID != "" {
		if viewer, err := s.Users.GetByID(viewerID); err == nil && viewer != nil {
			viewerEmail = viewer.Email
		}
	}

	candidates, err := s.Users.ActiveExcludingEmail(viewerEmail, limit*5)
	if err != nil {
		return nil, err
	}

	type scored struct {
		user  models.User
		score int64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, u := range candidates {
		followers, err := s.Social.CountFollowers(u.ID)
		if err != nil {
			return nil, err
		}
		likes, err := s.Social.CountLikesReceived(u.ID)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, scored{user: u, score: followers + likes})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].user.CreatedAt.After(ranked[j].user.CreatedAt)
	})
	if int64(len(ranked)) > limit {
		ranked = ranked[:limit]
	}

	merged := map[string]models.User{}
	order := make([]string, 0, len(ranked))
	for _, r := range ranked {
		merged[r.user.ID] = r.user
		order = append(order, r.user.ID)
	}
	return s.annotate(merged, order, viewerID)
}

func (s *DefaultProfileService) annotate(users map[string]models.User, order []string, viewerID string) ([]UserResult, error) {
	var followSet map[string]bool
	if viewerID != "" {
		var err error
		followSet, err = s.Social.FollowingSet(viewerID, order)
		if err != nil {
			return nil, err
		}
	}

	results := make([]UserResult, 0, len(order))
	for _, id := range order {
		u := users[id]
		results = append(results, UserResult{
			UserSnippet: models.UserSnippet{ID: u.ID, Name: u.Name, ProfilePicURL: u.ProfilePicURL},
			Username:    u.Username,
			Bio:         u.Bio,
			IsFollowing: followSet[id],
		})
	}
	return results, nil
}
