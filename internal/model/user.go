package model

import (
	"errors"
	"time"
)

// User represents an admin-panel login account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks that a password meets the minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// Principal identifies the acting user for audit stamps on writes.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
