package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a platform user. Status false means the account is
// soft-deleted; the document is never physically removed on self-delete.
type User struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	Username      string    `bson:"username,omitempty" json:"username,omitempty"`
	PasswordHash  string    `bson:"passwordHash" json:"-"`
	DateOfBirth   string    `bson:"dateOfBirth" json:"dateOfBirth,omitempty"`
	ProfilePicURL string    `bson:"profilePicUrl,omitempty" json:"profilePicUrl,omitempty"`
	Bio           string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Status        bool      `bson:"status" json:"status"`
	Role          string    `bson:"role" json:"role"`
	Provider      string    `bson:"provider,omitempty" json:"-"` // "google" / "apple" for social sign-in accounts
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"-"`
}

// UserSnippet is the public author snapshot denormalized onto posts and comments.
type UserSnippet struct {
	ID            string `bson:"id" json:"id"`
	Name          string `bson:"name" json:"name"`
	ProfilePicURL string `bson:"profilePicUrl,omitempty" json:"profilePicUrl,omitempty"`
}
