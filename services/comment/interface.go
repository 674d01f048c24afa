package comment

import (
	"time"

	commentRepo "wsid/database/repository/comment"
	postRepo "wsid/database/repository/post"
	userRepo "wsid/database/repository/user"
	"wsid/models"
)

// CommentView is a comment decorated for the requesting viewer: author
// snippet, reaction counters, the viewer's own reaction state, and nested
// replies.
type CommentView struct {
	ID            string              `json:"id"`
	PostID        string              `json:"postId"`
	ParentID      string              `json:"parentId,omitempty"`
	Text          string              `json:"text"`
	Author        *models.UserSnippet `json:"author,omitempty"`
	LikesCount    int64               `json:"likesCount"`
	DislikesCount int64               `json:"dislikesCount"`
	HasLiked      bool                `json:"hasLiked"`
	HasDisliked   bool                `json:"hasDisliked"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Replies       []CommentView       `json:"replies"`
}

// ReactionDetails lists who liked and who disliked a comment.
type ReactionDetails struct {
	Likes    []models.UserSnippet `json:"likes"`
	Dislikes []models.UserSnippet `json:"dislikes"`
}

type CommentService interface {
	Create(postID, parentID, text, userID string) (*models.Comment, error)
	Update(commentID, userID, text string) (*models.Comment, error)
	// Delete removes a comment and its whole reply subtree. Admins may
	// delete any comment, everyone else only their own.
	Delete(commentID, userID, role string) error
	// Like toggles the viewer's like; a standing dislike is cleared in the
	// same update. Dislike mirrors it.
	Like(commentID, userID string) (*models.Comment, error)
	Dislike(commentID, userID string) (*models.Comment, error)
	// GetTree returns the post's root comments with replies nested, oldest
	// first at every level.
	GetTree(postID, viewerID string) ([]CommentView, error)
	ReactionDetails(commentID string) (*ReactionDetails, error)
}

// DefaultCommentService is the production implementation.
type DefaultCommentService struct {
	Comments commentRepo.CommentRepository
	Posts    postRepo.PostRepository
	Users    userRepo.UserRepository
}

// snippetsFor maps user ids to display snippets with one batched lookup.
func (s *DefaultCommentService) snippetsFor(ids []string) (map[string]models.UserSnippet, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	users, err := s.Users.ByIDs(unique)
	if err != nil {
		return nil, err
	}
	snippets := make(map[string]models.UserSnippet, len(users))
	for _, u := range users {
		snippets[u.ID] = models.UserSnippet{ID: u.ID, Name: u.Name, ProfilePicURL: u.ProfilePicURL}
	}
	return snippets, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
