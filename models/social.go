package models

import "time"

// Follow is a directed edge, unique per ordered (follower, following) pair.
type Follow struct {
	FollowerID  string    `bson:"followerId" json:"followerId"`
	FollowingID string    `bson:"followingId" json:"followingId"`
	FollowedAt  time.Time `bson:"followedAt" json:"followedAt"`
}

// ProfileLike is a like on a user profile, distinct from comment likes.
type ProfileLike struct {
	UserID       string    `bson:"userId" json:"userId"`
	TargetUserID string    `bson:"targetUserId" json:"targetUserId"`
	LikedAt      time.Time `bson:"likedAt" json:"likedAt"`
}

// Subscription is a newsletter signup.
type Subscription struct {
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
