package models

import "time"

// Comment is a node in a flat-stored tree: ParentID links to its parent
// (empty for roots) and Replies is the denormalized list of child ids kept
// in sync on child create/delete.
//
// Invariant: a user id appears in at most one of Likes/Dislikes, enforced by
// the like/dislike operation in a single update.
type Comment struct {
	ID            string    `bson:"id" json:"id"`
	PostID        string    `bson:"postId" json:"postId"`
	ParentID      string    `bson:"parentId" json:"parentId,omitempty"`
	Text          string    `bson:"text" json:"text"`
	CreatedBy     string    `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time `bson:"createdAt" json:"-"`
	UpdatedAt     time.Time `bson:"updatedAt,omitempty" json:"-"`
	Likes         []string  `bson:"likes" json:"-"`
	Dislikes      []string  `bson:"dislikes" json:"-"`
	LikesCount    int64     `bson:"likesCount" json:"likesCount"`
	DislikesCount int64     `bson:"dislikesCount" json:"dislikesCount"`
	Replies       []string  `bson:"replies" json:"-"`
}
