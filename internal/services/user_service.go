package services

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/cisaudit/internal/auth"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, bcryptCost int, log *logger.Logger) user.Service {
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register validates a registration and creates the account. The checks run
// in order: missing fields, password mismatch, password length, taken
// username. Nothing is written when any of them fails.
func (s *UserService) Register(ctx context.Context, reg user.Registration) (*user.User, error) {
	username := strings.TrimSpace(reg.Username)
	displayName := strings.TrimSpace(reg.DisplayName)

	if username == "" || reg.Password == "" {
		return nil, errors.ValidationError("Username and password are required", nil)
	}
	if reg.Password != reg.ConfirmPassword {
		return nil, errors.ValidationError("Passwords do not match", nil)
	}
	if len(reg.Password) < user.MinPasswordLength {
		return nil, errors.ValidationError("Password must be at least 8 characters", nil)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, errors.Conflict("Username already taken")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	if displayName == "" {
		displayName = username
	}

	u := &user.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
	}).Info("User registered")

	return u, nil
}

// Authenticate returns the user when username and password match. Unknown
// users and wrong passwords produce the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		s.logger.WithFields(map[string]interface{}{
			"username": u.Username,
		}).Warn("Failed login attempt")
		return nil, errors.Unauthorized("Invalid credentials")
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername retrieves a user by username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.repo.GetByUsername(ctx, username)
}
