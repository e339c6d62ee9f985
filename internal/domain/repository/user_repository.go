package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// CreateWithVerification inserts the user and stores its verification token atomically.
	CreateWithVerification(ctx context.Context, u *entity.User, token string, expires time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// MarkVerified verifies the user owning an unexpired token and clears the token fields.
	MarkVerified(ctx context.Context, token string, now time.Time) (int64, error)
	SetVerificationToken(ctx context.Context, userID int64, token string, expires time.Time) error
	ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}
