package models

import "time"

// Post is a poll-style post owning zero or more options.
type Post struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Images      []string  `bson:"images" json:"images"`
	CreatedBy   string    `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"-"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"-"`
}

// Option is a voteable choice on a post. VotesCount is denormalized and
// mutated only via atomic increments tied to the Vote lifecycle.
type Option struct {
	ID         string `bson:"id" json:"id"`
	PostID     string `bson:"postId" json:"postId"`
	Text       string `bson:"text" json:"text"`
	ImageURL   string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VotesCount int64  `bson:"votesCount" json:"votesCount"`
}

// Vote records one user's choice on a post. At most one vote per
// (postId, userId); a unique index backs the caller-side existence check.
type Vote struct {
	ID        string    `bson:"id" json:"id"`
	PostID    string    `bson:"postId" json:"postId"`
	OptionID  string    `bson:"optionId" json:"optionId"`
	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
