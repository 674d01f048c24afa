package post

import (
	"errors"
	"net/http"
	"time"

	voteRepo "wsid/database/repository/vote"
	"wsid/models"
	"wsid/utils"

	"github.com/google/uuid"
)

// CastVote records the viewer's single vote on a post. The unique
// (postId, userId) index makes a concurrent double-submit lose cleanly.
func (s *DefaultPostService) CastVote(postID, optionID, userID string) (*PostView, error) {
	post, err := s.Posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}
	option, err := s.Posts.GetOption(optionID)
	if err != nil {
		return nil, err
	}
	if option == nil || option.PostID != postID {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgPostNotFound)
	}

	voted, err := s.Votes.HasVoted(postID, userID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, utils.NewServiceError(http.StatusConflict, utils.MsgAlreadyVoted)
	}

	err = s.Votes.Create(&models.Vote{
		ID:        uuid.NewString(),
		PostID:    postID,
		OptionID:  optionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	var dup *voteRepo.ErrDuplicateVote
	if errors.As(err, &dup) {
		return nil, utils.NewServiceError(http.StatusConflict, utils.MsgAlreadyVoted)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Posts.IncOptionVotes(optionID, 1); err != nil {
		return nil, err
	}
	return s.GetByID(postID, userID)
}

// RetractVote withdraws the viewer's vote from the given option.
func (s *DefaultPostService) RetractVote(postID, optionID, userID string) (*PostView, error) {
	vote, err := s.Votes.Find(postID, optionID, userID)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, utils.NewServiceError(http.StatusNotFound, utils.MsgVoteNotFound)
	}
	if err := s.Votes.Delete(vote.ID); err != nil {
		return nil, err
	}
	if err := s.Posts.IncOptionVotes(optionID, -1); err != nil {
		return nil, err
	}
	return s.GetByID(postID, userID)
}
