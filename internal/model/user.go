package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is an authorization level attached to a user account.
type Role string

const (
	// RoleUser is the default role assigned on registration.
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative endpoints.
	RoleAdmin Role = "admin"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	// UpdateRefreshToken overwrites the single stored refresh token. A nil
	// token clears it.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	Confirm(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email string, hashedPassword string) error
	UpdateAvatar(ctx context.Context, email string, url string) (User, error)
}

// User represents a stored account.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	RefreshToken   *string
	Avatar         *string
	Confirmed      bool
	Role           Role
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Avatar    *string   `json:"avatar"`
	Confirmed bool      `json:"confirmed"`
	Role      Role      `json:"role"`
}

// Profile builds the public view of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Avatar:    u.Avatar,
		Confirmed: u.Confirmed,
		Role:      u.Role,
	}
}

// RegisterParams contains parameters to register a new account.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns ErrPasswordMismatch when password does not match hash.
	Compare(hash string, password string) error
}
