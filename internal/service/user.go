package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/cache"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

const avatarKeyPrefix = "avatars/"

// User serves profile reads and avatar updates. Profiles are cached per user
// id for the lifetime configured on the cache.
type User struct {
	users    model.UserStore
	storage  model.Storage
	profiles *cache.TTL[uuid.UUID, model.Profile]
	logger   *logger.Logger
}

func NewUser(users model.UserStore, storage model.Storage, profiles *cache.TTL[uuid.UUID, model.Profile], logger *logger.Logger) *User {
	return &User{
		users:    users,
		storage:  storage,
		profiles: profiles,
		logger:   logger,
	}
}

// Me returns the cached profile of user, caching it on a miss.
func (s *User) Me(_ context.Context, user model.User) model.Profile {
	if profile, ok := s.profiles.Get(user.ID); ok {
		return profile
	}

	profile := user.Profile()
	s.profiles.Set(user.ID, profile)

	return profile
}

// UpdateAvatar uploads the image to object storage and points the user's
// avatar at it.
func (s *User) UpdateAvatar(ctx context.Context, user model.User, file io.Reader, size int64, contentType string) (model.Profile, error) {
	key := AvatarKey(user.Username)

	if err := s.storage.Upload(ctx, key, file, size, contentType); err != nil {
		s.logger.Error("User service: failed to upload avatar",
			"user_id", user.ID,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updated, err := s.users.UpdateAvatar(ctx, user.Email, s.storage.URL(key))
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to update avatar: %w", err)
	}

	s.profiles.Invalidate(user.ID)

	s.logger.Info("User service: avatar updated",
		"user_id", user.ID)

	return updated.Profile(), nil
}

func AvatarKey(username string) string {
	return avatarKeyPrefix + username
}
