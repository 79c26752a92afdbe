package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

const (
	MessageConfirmationSent  = "If this email exists, a confirmation link has been sent."
	MessageAlreadyConfirmed  = "Your email is already confirmed."
	MessageEmailConfirmed    = "Email confirmed!"
	MessageResetSent         = "If this email exists, a reset link has been sent."
	MessagePasswordResetDone = "Password reset confirmed!"
	gravatarURL              = "https://www.gravatar.com/avatar/"
)

// Auth orchestrates registration, login and the email-token flows.
type Auth struct {
	users   model.UserStore
	tokens  *TokenService
	manager model.TokenManager
	hasher  model.PasswordHasher
	mailer  model.Mailer
	clock   clock.Clock
	logger  *logger.Logger

	// dispatch runs outgoing mail off the request path.
	dispatch func(func())
}

func NewAuth(
	users model.UserStore,
	tokens *TokenService,
	manager model.TokenManager,
	hasher model.PasswordHasher,
	mailer model.Mailer,
	clk clock.Clock,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		tokens:   tokens,
		manager:  manager,
		hasher:   hasher,
		mailer:   mailer,
		clock:    clk,
		logger:   logger,
		dispatch: func(f func()) { go f() },
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"username", params.Username)

	if err := a.ensureAvailable(ctx, params); err != nil {
		return model.User{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := Gravatar(params.Email)
	user, err := a.users.Create(ctx, model.User{
		ID:             uuid.New(),
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: hash,
		CreatedAt:      a.clock.Now(),
		Avatar:         &avatar,
		Confirmed:      false,
		Role:           model.RoleUser,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.User{}, apierror.NewErrAccountExists()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", params.Username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.sendEmail(ctx, user, model.EmailConfirm)

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

func (a *Auth) ensureAvailable(ctx context.Context, params model.RegisterParams) error {
	_, err := a.users.GetByEmail(ctx, params.Email)
	if err == nil {
		return apierror.NewErrAccountExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	_, err = a.users.GetByUsername(ctx, params.Username)
	if err == nil {
		return apierror.NewErrAccountExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by username: %w", err)
	}

	return nil
}

// Login checks, in order, that the user exists, that the password matches and
// that the email is confirmed, then issues a session.
func (a *Auth) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, apierror.NewErrInvalidUsername()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	err = a.hasher.Compare(user.HashedPassword, password)
	if errors.Is(err, model.ErrPasswordMismatch) {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.TokenPair{}, apierror.NewErrInvalidPassword()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to compare password: %w", err)
	}

	if !user.Confirmed {
		return model.TokenPair{}, apierror.NewErrEmailNotConfirmed()
	}

	pair, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return pair, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	pair, err := a.tokens.Refresh(ctx, refreshToken)
	if errors.Is(err, model.ErrInvalidToken) {
		return model.TokenPair{}, apierror.NewErrInvalidRefreshToken(err)
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to refresh session: %w", err)
	}
	return pair, nil
}

func (a *Auth) Logout(ctx context.Context, user model.User) error {
	if err := a.tokens.Revoke(ctx, user); err != nil {
		return err
	}

	a.logger.Info("Auth service: user logged out",
		"user_id", user.ID)

	return nil
}

// RequestEmail resends the confirmation email to an unconfirmed account.
func (a *Auth) RequestEmail(ctx context.Context, email string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return MessageConfirmationSent, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.Confirmed {
		return MessageAlreadyConfirmed, nil
	}

	a.sendEmail(ctx, user, model.EmailConfirm)

	return MessageConfirmationSent, nil
}

// ConfirmEmail marks the account behind token as confirmed. A second
// confirmation is rejected without touching state.
func (a *Auth) ConfirmEmail(ctx context.Context, token string) (string, error) {
	email, ok := a.tokens.EmailFromToken(token)
	if !ok {
		return "", apierror.NewErrVerification()
	}

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", apierror.NewErrVerification()
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.Confirmed {
		return "", apierror.NewErrAlreadyConfirmed()
	}

	if err := a.users.Confirm(ctx, email); err != nil {
		return "", fmt.Errorf("failed to confirm email: %w", err)
	}

	a.logger.Info("Auth service: email confirmed",
		"user_id", user.ID)

	return MessageEmailConfirmed, nil
}

func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return MessageResetSent, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	a.sendEmail(ctx, user, model.EmailPasswordReset)

	return MessageResetSent, nil
}

// ResetPassword replaces the password of the account behind token. The token
// stays usable until it expires.
func (a *Auth) ResetPassword(ctx context.Context, token, password string) (string, error) {
	email, ok := a.tokens.EmailFromToken(token)
	if !ok {
		return "", apierror.NewErrVerification()
	}

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", apierror.NewErrVerification()
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, email, hash); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password reset",
		"user_id", user.ID)

	return MessagePasswordResetDone, nil
}

// sendEmail mints an email-action token for user and hands the message to the
// mailer in the background. Failures are logged only.
func (a *Auth) sendEmail(ctx context.Context, user model.User, kind model.EmailKind) {
	ctx = context.WithoutCancel(ctx)

	a.dispatch(func() {
		token, err := a.manager.GenerateEmailToken(user.Email)
		if err != nil {
			a.logger.Error("Auth service: failed to generate email token",
				"user_id", user.ID,
				"error", err.Error())
			return
		}

		err = a.mailer.Send(ctx, model.Email{
			To:       user.Email,
			Username: user.Username,
			Token:    token,
			Kind:     kind,
		})
		if err != nil {
			a.logger.Error("Auth service: failed to send email",
				"user_id", user.ID,
				"kind", kind,
				"error", err.Error())
		}
	})
}

// Gravatar returns the gravatar image URL for email.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarURL + hex.EncodeToString(sum[:])
}
