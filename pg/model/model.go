package model

import (
	"context"
	"time"
)

// User is a portal account. Roles are stored as raw strings and normalized
// by the auth package before any privilege check.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"` // Never expose in JSON
	IsActive     bool   `json:"is_active"`
}

// DB defines the database operations the auth service requires.
type DB interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	IsTokenDenied(ctx context.Context, jti string) (bool, error)
	DenyToken(ctx context.Context, jti string, expiresAt time.Time) error
}
