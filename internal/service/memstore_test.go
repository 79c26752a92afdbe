package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/model"
)

// memUserStore is an in-memory model.UserStore for flow tests.
type memUserStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]model.User
	confirmCalls int
}

func newMemUserStore(users ...model.User) *memUserStore {
	s := &memUserStore{users: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUserStore) find(match func(model.User) bool) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	return s.find(func(u model.User) bool { return u.Username == username })
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) update(match func(model.User) bool, apply func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if match(u) {
			apply(&u)
			s.users[id] = u
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) UpdateRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	_, err := s.update(func(u model.User) bool { return u.ID == id }, func(u *model.User) {
		if token == nil {
			u.RefreshToken = nil
			return
		}
		t := *token
		u.RefreshToken = &t
	})
	return err
}

func (s *memUserStore) Confirm(_ context.Context, email string) error {
	s.mu.Lock()
	s.confirmCalls++
	s.mu.Unlock()

	_, err := s.update(func(u model.User) bool { return u.Email == email }, func(u *model.User) {
		u.Confirmed = true
	})
	return err
}

func (s *memUserStore) UpdatePassword(_ context.Context, email string, hashedPassword string) error {
	_, err := s.update(func(u model.User) bool { return u.Email == email }, func(u *model.User) {
		u.HashedPassword = hashedPassword
	})
	return err
}

func (s *memUserStore) UpdateAvatar(_ context.Context, email string, url string) (model.User, error) {
	return s.update(func(u model.User) bool { return u.Email == email }, func(u *model.User) {
		u.Avatar = &url
	})
}

func (s *memUserStore) get(id uuid.UUID) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}
