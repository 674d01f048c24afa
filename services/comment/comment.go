package comment

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	commentRepo "wsid/database/repository/comment"
	"wsid/models"
	"wsid/utils"

	"github.com/google/uuid"
)

const maxCommentLength = 1000

// Create adds a comment to a post, optionally as a reply to another comment
// on the same post.
func (s *DefaultCommentService) Create(postID, parentID, text, userID string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.NewServiceError(http.StatusBadRequest, "comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, utils.NewServiceError(http.StatusBadRequest, "comment text exceeds 1000 characters")
	}

	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}

	if parentID != "" {
		parent, err := s.Comments.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgCommentNotFound)
		}
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		ParentID:  parentID,
		Text:      text,
		CreatedBy: userID,
		Likes:     []string{},
		Dislikes:  []string{},
		Replies:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Comments.Create(comment); err != nil {
		return nil, err
	}
	if parentID != "" {
		if err := s.Comments.AddReply(parentID, comment.ID); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// Update edits a comment's text. Only the author may edit; an empty text
// keeps the current one but still stamps updatedAt.
func (s *DefaultCommentService) Update(commentID, userID, text string) (*models.Comment, error) {
	comment, err := s.Comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgCommentNotFound)
	}
	if comment.CreatedBy != userID {
		return nil, utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, utils.NewServiceError(http.StatusBadRequest, "comment text exceeds 1000 characters")
	}

	now := time.Now()
	fields := map[string]interface{}{"updatedAt": now}
	if text != "" {
		fields["text"] = text
	}
	if err := s.Comments.SetFields(commentID, fields); err != nil {
		return nil, err
	}
	if text != "" {
		comment.Text = text
	}
	comment.UpdatedAt = now
	return comment, nil
}

// Delete removes a comment and every descendant reply. The subtree is
// collected with an iterative work list, then removed in one batch.
func (s *DefaultCommentService) Delete(commentID, userID, role string) error {
	comment, err := s.Comments.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return utils.NewServiceError(http.StatusNotFound, utils.MsgCommentNotFound)
	}
	if comment.CreatedBy != userID && role != models.RoleAdmin {
		return utils.NewServiceError(http.StatusForbidden, utils.MsgUnauthorisedAccess)
	}

	doomed := []string{commentID}
	queue := []string{commentID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.Comments.ChildIDs(current)
		if err != nil {
			return err
		}
		doomed = append(doomed, children...)
		queue = append(queue, children...)
	}

	if err := s.Comments.DeleteMany(doomed); err != nil {
		return err
	}
	if comment.ParentID != "" {
		if err := s.Comments.RemoveReply(comment.ParentID, commentID); err != nil {
			return err
		}
	}
	return nil
}

// Like toggles the viewer's like on a comment. Liking clears a standing
// dislike in the same atomic update.
func (s *DefaultCommentService) Like(commentID, userID string) (*models.Comment, error) {
	return s.react(commentID, userID, true)
}

// Dislike toggles the viewer's dislike, clearing a standing like.
func (s *DefaultCommentService) Dislike(commentID, userID string) (*models.Comment, error) {
	return s.react(commentID, userID, false)
}

func (s *DefaultCommentService) react(commentID, userID string, like bool) (*models.Comment, error) {
	comment, err := s.Comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgCommentNotFound)
	}

	hasLiked := contains(comment.Likes, userID)
	hasDisliked := contains(comment.Dislikes, userID)

	change := commentRepo.ReactionChange{UserID: userID}
	if like {
		if hasLiked {
			change.RemoveLike = true
		} else {
			change.AddLike = true
			change.RemoveDislike = hasDisliked
		}
	} else {
		if hasDisliked {
			change.RemoveDislike = true
		} else {
			change.AddDislike = true
			change.RemoveLike = hasLiked
		}
	}
	if err := s.Comments.React(commentID, change); err != nil {
		return nil, err
	}
	return s.Comments.GetByID(commentID)
}

// GetTree assembles the post's comment tree for a viewer. Author snippets
// come from one batched user lookup across the whole tree.
func (s *DefaultCommentService) GetTree(postID, viewerID string) ([]CommentView, error) {
	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}

	roots, err := s.Comments.RootsByPost(postID)
	if err != nil {
		return nil, err
	}

	// Collect the whole tree first so the snippet lookup is a single batch.
	byParent := map[string][]models.Comment{}
	all := append([]models.Comment(nil), roots...)
	queue := append([]models.Comment(nil), roots...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.Comments.ByParent(current.ID)
		if err != nil {
			return nil, err
		}
		byParent[current.ID] = children
		all = append(all, children...)
		queue = append(queue, children...)
	}

	authorIDs := make([]string, 0, len(all))
	for _, c := range all {
		authorIDs = append(authorIDs, c.CreatedBy)
	}
	snippets, err := s.snippetsFor(authorIDs)
	if err != nil {
		return nil, err
	}

	var build func(list []models.Comment) []CommentView
	build = func(list []models.Comment) []CommentView {
		views := make([]CommentView, 0, len(list))
		for _, c := range list {
			view := CommentView{
				ID:            c.ID,
				PostID:        c.PostID,
				ParentID:      c.ParentID,
				Text:          c.Text,
				LikesCount:    c.LikesCount,
				DislikesCount: c.DislikesCount,
				HasLiked:      viewerID != "" && contains(c.Likes, viewerID),
				HasDisliked:   viewerID != "" && contains(c.Dislikes, viewerID),
				CreatedAt:     c.CreatedAt,
				UpdatedAt:     c.UpdatedAt,
				Replies:       build(byParent[c.ID]),
			}
			if snippet, ok := snippets[c.CreatedBy]; ok {
				view.Author = &snippet
			}
			views = append(views, view)
		}
		return views
	}
	return build(roots), nil
}

// ReactionDetails resolves the like and dislike membership of a comment
// into user snippets.
func (s *DefaultCommentService) ReactionDetails(commentID string) (*ReactionDetails, error) {
	comment, err := s.Comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgCommentNotFound)
	}

	snippets, err := s.snippetsFor(append(append([]string{}, comment.Likes...), comment.Dislikes...))
	if err != nil {
		return nil, err
	}
	details := &ReactionDetails{Likes: []models.UserSnippet{}, Dislikes: []models.UserSnippet{}}
	for _, id := range comment.Likes {
		if snippet, ok := snippets[id]; ok {
			details.Likes = append(details.Likes, snippet)
		}
	}
	for _, id := range comment.Dislikes {
		if snippet, ok := snippets[id]; ok {
			details.Dislikes = append(details.Dislikes, snippet)
		}
	}
	return details, nil
}
