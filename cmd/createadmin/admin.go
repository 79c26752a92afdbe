package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/service"
)

const minPasswordLength = 6

var errPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)

type adminParams struct {
	Username string
	Email    string
	Password string
}

// createAdmin stores a confirmed account with the admin role. It refuses to
// touch an existing account.
func createAdmin(ctx context.Context, users model.UserStore, hasher model.PasswordHasher, clk clock.Clock, p adminParams) (model.User, error) {
	if len(p.Password) < minPasswordLength {
		return model.User{}, errPasswordTooShort
	}

	if _, err := users.GetByEmail(ctx, p.Email); err == nil {
		return model.User{}, fmt.Errorf("email %s: %w", p.Email, model.ErrAlreadyExists)
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := hasher.Hash(p.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := service.Gravatar(p.Email)
	user, err := users.Create(ctx, model.User{
		ID:             uuid.New(),
		Username:       p.Username,
		Email:          p.Email,
		HashedPassword: hash,
		CreatedAt:      clk.Now(),
		Avatar:         &avatar,
		Confirmed:      true,
		Role:           model.RoleAdmin,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
