package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/campuskart/internal/domain/entity"
	"github.com/oksasatya/campuskart/internal/domain/repository"
)

const userColumns = `user_id, first_name, last_name, usiu_email, password_hash, is_verified,
		COALESCE(phone_number, ''), created_at`

type UserRepository struct {
	db *Gateway
}

func NewUserRepository(db *Gateway) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsVerified, &u.PhoneNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) CreateWithVerification(ctx context.Context, u *entity.User, token string, expires time.Time) (int64, error) {
	var id int64
	err := r.db.InTx(ctx, func(ctx context.Context, q Querier) error {
		if err := q.QueryRow(ctx, `
			INSERT INTO users (first_name, last_name, usiu_email, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING user_id, created_at
		`, u.FirstName, u.LastName, u.Email, u.PasswordHash).Scan(&id, &u.CreatedAt); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `
			UPDATE users SET verification_token = $1, verification_token_expires = $2
			WHERE user_id = $3
		`, token, expires, id)
		return err
	})
	if err != nil {
		return 0, translate(err)
	}
	u.ID = id
	u.VerificationToken = token
	u.TokenExpiresAt = &expires
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var u *entity.User
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		var err error
		u, err = scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u *entity.User
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		var err error
		u, err = scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE usiu_email = $1`, email))
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		return q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE usiu_email = $1)`, email).Scan(&exists)
	})
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, token string, now time.Time) (int64, error) {
	var id int64
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		return q.QueryRow(ctx, `
			UPDATE users
			SET is_verified = TRUE, verification_token = NULL, verification_token_expires = NULL
			WHERE verification_token = $1 AND verification_token_expires > $2
			RETURNING user_id
		`, token, now).Scan(&id)
	})
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	return r.db.Run(ctx, func(ctx context.Context, q DB) error {
		res, err := q.Exec(ctx, `
			UPDATE users SET verification_token = $1, verification_token_expires = $2
			WHERE user_id = $3
		`, token, expires, userID)
		if err != nil {
			return translate(err)
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *UserRepository) ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.Run(ctx, func(ctx context.Context, q DB) error {
		res, err := q.Exec(ctx, `
			UPDATE users SET verification_token = NULL, verification_token_expires = NULL
			WHERE verification_token IS NOT NULL AND verification_token_expires <= $1
		`, now)
		if err != nil {
			return err
		}
		n = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
