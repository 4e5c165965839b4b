package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Register validates and creates an account
	Register(ctx context.Context, reg Registration) (*User, error)

	// Authenticate returns the user when the password matches
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}
