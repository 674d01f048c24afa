package post

import (
	"context"
	"time"

	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	userRepo "wsid/database/repository/user"
	voteRepo "wsid/database/repository/vote"
	"wsid/models"
	"wsid/services/storage"
)

// OptionInput describes one poll option at creation time. ImagePath is a
// local temp file already validated by the handler; empty means no image.
type OptionInput struct {
	Text      string
	ImagePath string
}

// OptionUpdate mutates one option of a post. An empty ID adds a new option;
// Remove deletes the identified one; otherwise text and image are replaced
// when present, cleaning up any replaced image.
type OptionUpdate struct {
	ID        string
	Text      string
	ImagePath string
	Remove    bool
}

// UpdateInput carries the editable post fields. Empty strings leave the
// current value; ImagePaths are appended to the post's images and
// RemoveImages names stored image URLs to drop.
type UpdateInput struct {
	Title        string
	Description  string
	ImagePaths   []string
	RemoveImages []string
	Options      []OptionUpdate
}

// PostView is a post decorated for the requesting viewer.
type PostView struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Images        []string            `json:"images"`
	Author        *models.UserSnippet `json:"author,omitempty"`
	Options       []models.Option     `json:"options"`
	VotesCount    int64               `json:"votesCount"`
	CommentsCount int64               `json:"commentsCount"`
	HasVoted      bool                `json:"hasVoted"`
	VotedOptionID string              `json:"votedOptionId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// PostPage is one page of decorated posts.
type PostPage struct {
	Posts    []PostView `json:"posts"`
	Total    int64      `json:"total"`
	Page     int64      `json:"page"`
	PageSize int64      `json:"pageSize"`
}

type PostService interface {
	Create(ctx context.Context, userID, title, description string, imagePaths []string, options []OptionInput) (*PostView, error)
	Update(ctx context.Context, postID, userID, role string, input UpdateInput) (*PostView, error)
	// Delete removes the post, its options and media, and every dependent
	// vote and comment. Admins may delete any post.
	Delete(ctx context.Context, postID, userID, role string) error
	GetByID(postID, viewerID string) (*PostView, error)
	List(q postRepo.ListQuery, viewerID string) (*PostPage, error)
	Search(prefix, viewerID string) ([]PostView, error)
	// Trending ranks recent posts by vote and comment activity within the
	// window, newest first on ties.
	Trending(viewerID string, page, pageSize int64) (*PostPage, error)
	CastVote(postID, optionID, userID string) (*PostView, error)
	RetractVote(postID, optionID, userID string) (*PostView, error)
}

// DefaultPostService is the production implementation.
type DefaultPostService struct {
	Posts    postRepo.PostRepository
	Votes    voteRepo.VoteRepository
	Comments commentRepo.CommentRepository
	Users    userRepo.UserRepository
	Storage  storage.StorageService
}
