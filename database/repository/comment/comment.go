package commentRepo

import (
	"time"

	"wsid/models"
)

// ReactionChange is a single atomic adjustment to a comment's like/dislike
// sets and their counters. The service layer composes it so that mutual
// exclusivity holds within one update.
type ReactionChange struct {
	UserID        string
	AddLike       bool
	RemoveLike    bool
	AddDislike    bool
	RemoveDislike bool
}

// CommentRepository stores the flat comment tree.
type CommentRepository interface {
	Create(comment *models.Comment) error
	// GetByID retrieves a comment, or (nil, nil) when absent.
	GetByID(id string) (*models.Comment, error)
	SetFields(id string, fields map[string]interface{}) error
	// RootsByPost returns root comments ordered by creation time ascending.
	RootsByPost(postID string) ([]models.Comment, error)
	// ByParent returns direct replies ordered by creation time ascending.
	ByParent(parentID string) ([]models.Comment, error)
	// ChildIDs returns the ids of direct replies.
	ChildIDs(parentID string) ([]string, error)
	// DeleteMany removes the given comments in one operation.
	DeleteMany(ids []string) error
	// AddReply appends a child id to the parent's replies array.
	AddReply(parentID, childID string) error
	// RemoveReply pulls a child id from the parent's replies array.
	RemoveReply(parentID, childID string) error
	// React applies a reaction change as one atomic update.
	React(id string, change ReactionChange) error
	CountByPost(postID string) (int64, error)
	CountByPostSince(postID string, since time.Time) (int64, error)
	DeleteByPost(postID string) error
	DeleteByCreator(userID string) error
	// All lists every comment (counter reconciliation).
	All() ([]models.Comment, error)
}
