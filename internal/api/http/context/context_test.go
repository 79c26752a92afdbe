package context

import (
	"context"
	"testing"

	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetAndGetUser(t *testing.T) {
	t.Parallel()

	m := NewManager()
	user := model.User{ID: uuid.New(), Username: "alice", Role: model.RoleAdmin}

	ctx := m.SetUserToContext(context.Background(), user)

	got, ok := m.GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_GetUser_Missing(t *testing.T) {
	t.Parallel()

	m := NewManager()

	_, ok := m.GetUserFromContext(context.Background())
	assert.False(t, ok)

	type otherKey string
	ctx := context.WithValue(context.Background(), otherKey("user"), model.User{Username: "mallory"})
	_, ok = m.GetUserFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetUser_Overrides(t *testing.T) {
	t.Parallel()

	m := NewManager()
	ctx := m.SetUserToContext(context.Background(), model.User{Username: "first"})
	ctx = m.SetUserToContext(ctx, model.User{Username: "second"})

	got, ok := m.GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", got.Username)
}
