package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO users (username, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash, u.DisplayName, u.CreatedAt.Unix(),
	).Scan(&u.ID)
	if errors.IsUniqueViolation(err) {
		return errors.Conflict("Username already taken")
	}
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := `SELECT id, username, password_hash, display_name, created_at FROM users ` + where

	var u user.User
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// Count returns the number of registered users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return 0, errors.DatabaseError("Failed to count users", err)
	}
	return total, nil
}
