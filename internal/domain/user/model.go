package user

import "time"

// User is an auditor account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name is what reports print for the user: the display name, or the
// username when no display name was set
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// Registration is the input for creating an account
type Registration struct {
	Username        string
	Password        string
	ConfirmPassword string
	DisplayName     string
}
