package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// TokenService composes the TokenManager with the user store: it persists
// refresh tokens on login and checks presented refresh tokens against the
// stored value. A user holds at most one live refresh token.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, users: users, logger: logger}
}

// Issue mints an access/refresh pair for user and stores the refresh token,
// replacing any previous one. Tokens are returned only after the write
// succeeds.
func (s *TokenService) Issue(ctx context.Context, user model.User) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(user.Username)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user.Username)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		s.logger.Error("Token service: failed to persist refresh token",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    model.TokenTypeBearer,
	}, nil
}

// VerifyRefreshToken returns the owner of presented if it is a valid refresh
// token and is the one currently stored for that user.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, presented string) (model.User, error) {
	username, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: unknown subject", model.ErrInvalidToken)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := validateStored(user.RefreshToken, presented); err != nil {
		s.logger.Info("Token service: stale refresh token presented",
			"user_id", user.ID,
			"reason", err.Error())
		return model.User{}, err
	}

	return user, nil
}

// Refresh issues a new access token for the owner of presented. The refresh
// token itself is returned unchanged.
func (s *TokenService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	user, err := s.VerifyRefreshToken(ctx, presented)
	if err != nil {
		return model.TokenPair{}, err
	}

	access, err := s.manager.GenerateAccessToken(user.Username)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: presented,
		TokenType:    model.TokenTypeBearer,
	}, nil
}

// Revoke clears the stored refresh token of user.
func (s *TokenService) Revoke(ctx context.Context, user model.User) error {
	if err := s.users.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves the user behind an access token.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	username, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// EmailFromToken returns the email carried by an email-action token.
func (s *TokenService) EmailFromToken(token string) (string, bool) {
	email, err := s.manager.ParseEmailToken(token)
	if err != nil {
		return "", false
	}
	return email, true
}

func validateStored(stored *string, presented string) error {
	if stored == nil || *stored == "" {
		return model.ErrTokenRevoked
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
