package profile

import (
	"context"

	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	regRepo "wsid/database/repository/registration"
	socialRepo "wsid/database/repository/social"
	tokenRepo "wsid/database/repository/token"
	userRepo "wsid/database/repository/user"
	voteRepo "wsid/database/repository/vote"
	"wsid/models"
	"wsid/services/post"
	"wsid/services/storage"
)

// ProfileView is a user profile decorated for the requesting viewer.
type ProfileView struct {
	User           *models.User `json:"user"`
	FollowersCount int64        `json:"followersCount"`
	FollowingCount int64        `json:"followingCount"`
	LikesCount     int64        `json:"likesCount"`
	IsFollowing    bool         `json:"isFollowing"`
	HasLiked       bool         `json:"hasLiked"`
}

// UserResult is one entry of a user search or trending listing.
type UserResult struct {
	models.UserSnippet
	Username    string `json:"username,omitempty"`
	Bio         string `json:"bio,omitempty"`
	IsFollowing bool   `json:"isFollowing"`
}

// EditInput carries the editable profile fields. Empty strings leave the
// current value; ProfilePicPath is a validated local temp file.
type EditInput struct {
	Name           string
	Bio            string
	DateOfBirth    string
	ProfilePicPath string
}

type ProfileService interface {
	ViewProfile(targetID, viewerID string) (*ProfileView, error)
	EditProfile(ctx context.Context, userID string, input EditInput) (*models.User, error)
	// ToggleFollow flips the viewer's follow edge and reports the new state.
	ToggleFollow(viewerID, targetID string) (following bool, err error)
	// ToggleLike flips the viewer's profile like and reports the new state.
	ToggleLike(viewerID, targetID string) (liked bool, err error)
	SearchUsers(query, viewerID string) ([]UserResult, error)
	// TrendingUsers ranks active users by followers plus profile likes.
	TrendingUsers(viewerID string, limit int64) ([]UserResult, error)
	// DeleteSelf soft-deletes the caller's account after a password
	// reconfirmation and scrubs their content and sessions.
	DeleteSelf(ctx context.Context, userID, password string) error
	// AdminDeleteUser soft-deletes any non-admin account.
	AdminDeleteUser(ctx context.Context, targetID string) error
	AdminListUsers() ([]models.User, error)
}

// DefaultProfileService is the production implementation. Account removal
// cascades through the post service so media cleanup stays in one place.
type DefaultProfileService struct {
	Users    userRepo.UserRepository
	Social   socialRepo.SocialRepository
	Tokens   tokenRepo.TokenRepository
	Pending  regRepo.RegistrationRepository
	Posts    postRepo.PostRepository
	Comments commentRepo.CommentRepository
	Votes    voteRepo.VoteRepository
	PostSvc  post.PostService
	Storage  storage.StorageService
}
