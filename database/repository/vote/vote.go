package voteRepo

import (
	"time"

	"wsid/models"
)

// ErrDuplicateVote is returned when an insert collides with the unique
// (postId, userId) index, i.e. a concurrent double-submit lost the race.
type ErrDuplicateVote struct {
	PostID string
	UserID string
}

func (e *ErrDuplicateVote) Error() string {
	return "duplicate vote for post " + e.PostID + " by user " + e.UserID
}

// VoteRepository stores one-vote-per-user-per-post records.
type VoteRepository interface {
	// Create inserts a vote; returns *ErrDuplicateVote when the user
	// already voted on the post.
	Create(vote *models.Vote) error
	// HasVoted reports whether the user voted on the post.
	HasVoted(postID, userID string) (bool, error)
	// Find retrieves the user's vote for a post/option, or (nil, nil).
	Find(postID, optionID, userID string) (*models.Vote, error)
	// ByPostAndUser retrieves the user's vote on a post, or (nil, nil).
	ByPostAndUser(postID, userID string) (*models.Vote, error)
	// Delete removes a vote by id.
	Delete(id string) error
	CountByPost(postID string) (int64, error)
	CountByPostSince(postID string, since time.Time) (int64, error)
	CountByOption(optionID string) (int64, error)
	DeleteByPost(postID string) error
	// DeleteByOption removes votes for one option (option removal cleanup).
	DeleteByOption(optionID string) error
	DeleteByUser(userID string) error
}
