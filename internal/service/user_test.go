package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "password123", user.HashedPassword)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	_, err = f.users.Register(ctx, "alice", "a@x.com", "password123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Usernames are display names and may repeat
	_, err = f.users.Register(ctx, "alice", "alice@y.com", "password123")
	assert.NoError(t, err)
}

func TestUserService_EmailIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lower, err := f.users.Register(ctx, "alice", "a@x.com", "alice-password")
	require.NoError(t, err)
	upper, err := f.users.Register(ctx, "bob", "A@x.com", "bob-password")
	require.NoError(t, err)
	assert.NotEqual(t, lower.ID, upper.ID)

	_, err = f.users.Authenticate(ctx, "A@x.com", "alice-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := f.users.Authenticate(ctx, "A@x.com", "bob-password")
	require.NoError(t, err)
	assert.Equal(t, upper.ID, user.ID)

	_, err = f.users.Authenticate(ctx, "ALICE@x.com", "alice-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Register_PasswordTooLong(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(context.Background(), "bob", "b@x.com", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered, err := f.users.Register(ctx, "carol", "c@x.com", "password123")
	require.NoError(t, err)

	user, err := f.users.Authenticate(ctx, "c@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = f.users.Authenticate(ctx, "c@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, created, err := f.users.EnsureAdmin(ctx, "admin", "admin@x.com", "password123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)

	again, created, err := f.users.EnsureAdmin(ctx, "admin", "admin@x.com", "other-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	// The original password still works
	_, err = f.users.Authenticate(ctx, "admin@x.com", "password123")
	assert.NoError(t, err)
}
