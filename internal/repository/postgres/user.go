package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/contactbook-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, email, hashed_password, created_at, refresh_token, avatar, confirmed, role`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt,
		&user.RefreshToken, &user.Avatar, &user.Confirmed, &role,
	)
	if err != nil {
		return model.User{}, err
	}
	user.Role = model.Role(role)

	return user, nil
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, email, hashed_password, created_at, refresh_token, avatar, confirmed, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.HashedPassword, user.CreatedAt,
		user.RefreshToken, user.Avatar, user.Confirmed, string(user.Role),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) exec(ctx context.Context, action string, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.exec(ctx, "update refresh token",
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, id, token)
}

func (r *UserRepository) Confirm(ctx context.Context, email string) error {
	return r.exec(ctx, "confirm email",
		`UPDATE users SET confirmed = TRUE WHERE email = $1`, email)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email string, hashedPassword string) error {
	return r.exec(ctx, "update password",
		`UPDATE users SET hashed_password = $2 WHERE email = $1`, email, hashedPassword)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, email string, url string) (model.User, error) {
	query := `UPDATE users SET avatar = $2 WHERE email = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, email, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update avatar: %w", err)
	}

	return user, nil
}
