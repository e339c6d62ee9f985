package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and never leaves the service layer.
type User struct {
	ID                int64
	FirstName         string
	LastName          string
	Email             string
	PasswordHash      string
	IsVerified        bool
	VerificationToken string
	TokenExpiresAt    *time.Time
	PhoneNumber       string
	CreatedAt         time.Time
}

// DisplayName is what buyers see next to a listing.
func (u *User) DisplayName() string {
	return u.FirstName
}
