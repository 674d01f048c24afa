package socialRepo

import "wsid/models"

// SocialRepository stores follow edges, profile likes and newsletter
// subscriptions. Lookups return (nil, nil) when no edge exists.
type SocialRepository interface {
	GetFollow(followerID, followingID string) (*models.Follow, error)
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID string) error
	// FollowingSet reports, for each candidate id, whether follower follows it.
	FollowingSet(followerID string, candidateIDs []string) (map[string]bool, error)
	CountFollowers(userID string) (int64, error)
	CountFollowing(userID string) (int64, error)
	CountLikesReceived(userID string) (int64, error)

	GetLike(userID, targetUserID string) (*models.ProfileLike, error)
	CreateLike(like *models.ProfileLike) error
	DeleteLike(userID, targetUserID string) error

	// DeleteAllForUser removes follow edges in both directions and likes
	// given and received by the user (account cleanup sweep).
	DeleteAllForUser(userID string) error

	SubscriptionExists(email string) (bool, error)
	CreateSubscription(sub *models.Subscription) error
}
