package misc

import (
	"net/http"
	"strings"
	"time"

	socialRepo "wsid/database/repository/social"
	"wsid/models"
	"wsid/utils"
)

type MiscService interface {
	// Subscribe records a newsletter signup; duplicates are rejected.
	Subscribe(email string) error
}

// DefaultMiscService is the production implementation.
type DefaultMiscService struct {
	Social socialRepo.SocialRepository
}

func (s *DefaultMiscService) Subscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return utils.NewServiceError(http.StatusBadRequest, "a valid email is required")
	}

	exists, err := s.Social.SubscriptionExists(email)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewServiceError(http.StatusConflict, utils.MsgAlreadySubscribed)
	}
	return s.Social.CreateSubscription(&models.Subscription{
		Email:     email,
		CreatedAt: time.Now(),
	})
}
