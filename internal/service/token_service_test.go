package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/contactbook-server/internal/mocks"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/testutil"
	"github.com/dtroode/contactbook-server/internal/token"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthority(t *testing.T) (*token.Authority, *testutil.FakeClock) {
	t.Helper()

	clk := testutil.NewFakeClock(epoch)
	a, err := token.NewAuthority(token.Config{
		Key:        token.StaticKey("test-secret"),
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 30 * time.Minute,
	}, clk)
	require.NoError(t, err)

	return a, clk
}

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewUserStore(t)

	manager.On("GenerateAccessToken", "alice").Return("access", nil).Once()
	manager.On("GenerateRefreshToken", "alice").Return("refresh", nil).Once()
	store.On("UpdateRefreshToken", ctx, user.ID, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "refresh"
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, model.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}, pair)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewUserStore(t)

	manager.On("GenerateAccessToken", "alice").Return("", assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, user)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_Issue_PersistFailureReturnsNoTokens(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewUserStore(t)

	manager.On("GenerateAccessToken", "alice").Return("access", nil).Once()
	manager.On("GenerateRefreshToken", "alice").Return("refresh", nil).Once()
	store.On("UpdateRefreshToken", ctx, user.ID, mock.Anything).Return(assert.AnError).Once()

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, user)
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, pair)
}

func TestTokenService_VerifyRefreshToken_Superseded(t *testing.T) {
	ctx := context.Background()
	authority, _ := newTestAuthority(t)
	user := model.User{ID: uuid.New(), Username: "alice"}
	store := newMemUserStore(user)
	svc := NewTokenService(authority, store, testutil.MakeNoopLogger())

	first, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	got, err := svc.VerifyRefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	second, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	_, err = authority.ParseRefreshToken(first.RefreshToken)
	require.NoError(t, err, "superseded token is still cryptographically valid")

	_, err = svc.VerifyRefreshToken(ctx, first.RefreshToken)
	require.ErrorIs(t, err, model.ErrTokenMismatch)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = svc.VerifyRefreshToken(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_VerifyRefreshToken_Failures(t *testing.T) {
	ctx := context.Background()
	authority, clk := newTestAuthority(t)
	user := model.User{ID: uuid.New(), Username: "alice"}

	t.Run("revoked", func(t *testing.T) {
		store := newMemUserStore(user)
		svc := NewTokenService(authority, store, testutil.MakeNoopLogger())

		pair, err := svc.Issue(ctx, user)
		require.NoError(t, err)
		require.NoError(t, svc.Revoke(ctx, user))

		_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, model.ErrTokenRevoked)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("access token presented", func(t *testing.T) {
		store := newMemUserStore(user)
		svc := NewTokenService(authority, store, testutil.MakeNoopLogger())

		pair, err := svc.Issue(ctx, user)
		require.NoError(t, err)

		_, err = svc.VerifyRefreshToken(ctx, pair.AccessToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("unknown subject", func(t *testing.T) {
		svc := NewTokenService(authority, newMemUserStore(), testutil.MakeNoopLogger())

		refresh, err := authority.GenerateRefreshToken("ghost")
		require.NoError(t, err)

		_, err = svc.VerifyRefreshToken(ctx, refresh)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		store := newMemUserStore(user)
		svc := NewTokenService(authority, store, testutil.MakeNoopLogger())

		pair, err := svc.Issue(ctx, user)
		require.NoError(t, err)

		clk.Advance(31 * time.Minute)
		t.Cleanup(func() { clk.Set(epoch) })

		_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})
}

func TestTokenService_VerifyRefreshToken_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	authority, _ := newTestAuthority(t)
	store := servermocks.NewUserStore(t)
	svc := NewTokenService(authority, store, testutil.MakeNoopLogger())

	refresh, err := authority.GenerateRefreshToken("alice")
	require.NoError(t, err)
	store.On("GetByUsername", ctx, "alice").Return(model.User{}, assert.AnError).Once()

	_, err = svc.VerifyRefreshToken(ctx, refresh)
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenService_Refresh_EchoesRefreshToken(t *testing.T) {
	ctx := context.Background()
	authority, _ := newTestAuthority(t)
	user := model.User{ID: uuid.New(), Username: "alice"}
	svc := NewTokenService(authority, newMemUserStore(user), testutil.MakeNoopLogger())

	issued, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, issued.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, issued.RefreshToken, refreshed.RefreshToken)
	assert.NotEqual(t, issued.AccessToken, refreshed.AccessToken)
	assert.Equal(t, model.TokenTypeBearer, refreshed.TokenType)

	subject, err := authority.ParseAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenService_Authenticate(t *testing.T) {
	ctx := context.Background()
	authority, _ := newTestAuthority(t)
	user := model.User{ID: uuid.New(), Username: "alice"}
	svc := NewTokenService(authority, newMemUserStore(user), testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	ghost, err := authority.GenerateAccessToken("ghost")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTokenService_EmailFromToken(t *testing.T) {
	authority, _ := newTestAuthority(t)
	svc := NewTokenService(authority, newMemUserStore(), testutil.MakeNoopLogger())

	emailToken, err := authority.GenerateEmailToken("alice@example.com")
	require.NoError(t, err)
	email, ok := svc.EmailFromToken(emailToken)
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", email)

	access, err := authority.GenerateAccessToken("alice@example.com")
	require.NoError(t, err)
	_, ok = svc.EmailFromToken(access)
	assert.False(t, ok)

	_, ok = svc.EmailFromToken("garbage")
	assert.False(t, ok)
}
