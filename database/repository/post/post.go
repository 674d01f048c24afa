package postRepo

import (
	"time"

	"wsid/models"
)

// ListQuery describes a paginated post listing.
type ListQuery struct {
	CreatedBy string // empty lists all creators
	Page      int64
	PageSize  int64
	SortBy    string
	Order     string // "asc" or "desc"
	Search    string // title prefix
}

// PostRepository covers posts and their options.
type PostRepository interface {
	Create(post *models.Post) error
	// GetByID retrieves a post, or (nil, nil) when absent.
	GetByID(id string) (*models.Post, error)
	SetFields(id string, fields map[string]interface{}) error
	Delete(id string) error
	// List returns one page of posts plus the total match count.
	List(q ListQuery) ([]models.Post, int64, error)
	// CreatedSince returns all posts created at or after the given time.
	CreatedSince(since time.Time) ([]models.Post, error)
	// SearchByTitle returns posts whose title starts with the prefix.
	SearchByTitle(prefix string) ([]models.Post, error)
	// DeleteByCreator removes every post created by the user.
	DeleteByCreator(userID string) error

	CreateOption(option *models.Option) error
	// GetOption retrieves an option, or (nil, nil) when absent.
	GetOption(id string) (*models.Option, error)
	SetOptionFields(id string, fields map[string]interface{}) error
	DeleteOption(id string) error
	OptionsByPost(postID string) ([]models.Option, error)
	DeleteOptionsByPost(postID string) error
	// IncOptionVotes atomically adjusts the denormalized vote counter.
	IncOptionVotes(id string, delta int64) error
	// AllOptions lists every option (counter reconciliation).
	AllOptions() ([]models.Option, error)
}
