package dto

import (
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserDTO converts a domain user
func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.Name(),
		CreatedAt:   u.CreatedAt,
	}
}
