package userRepo

import "wsid/models"

// UserRepository defines the user data access operations the application
// uses. Lookups return (nil, nil) when no document matches.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// GetByUsername retrieves a user by its username.
	GetByUsername(username string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update replaces an existing user record.
	Update(user *models.User) error
	// SetFields applies a partial update to a user record.
	SetFields(id string, fields map[string]interface{}) error
	// GetAll retrieves all users.
	GetAll() ([]models.User, error)
	// ByIDs retrieves the users matching the given ids.
	ByIDs(ids []string) ([]models.User, error)
	// SearchPrefix retrieves active users whose field value starts with prefix.
	SearchPrefix(field, prefix string, limit int64) ([]models.User, error)
	// TakenUsernames filters the candidate list down to names already in use.
	TakenUsernames(candidates []string) ([]string, error)
	// ActiveExcludingEmail lists active users other than the given email.
	ActiveExcludingEmail(email string, limit int64) ([]models.User, error)
}
