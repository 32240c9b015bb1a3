package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNormalizesAndHashes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterInput{
		FullName:       "  Alice Doe ",
		Email:          "Alice@Example.COM",
		Username:       " Alice ",
		Password:       "pw-123",
		AvatarPath:     "/tmp/a.png",
		CoverImagePath: "/tmp/c.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice Doe", user.FullName)
	assert.NotEmpty(t, user.Avatar)
	assert.NotEmpty(t, user.CoverImage)
	assert.Empty(t, user.PasswordHash)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw-123", stored.PasswordHash)
	assert.True(t, VerifyPassword(stored.PasswordHash, "pw-123"))
	assert.Nil(t, stored.RefreshToken)
}

func TestRegisterRejectsBlankFieldsWithoutCreating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{FullName: "   ", Email: "a@x.io", Username: "a", Password: "p", AvatarPath: "/tmp/a"},
		{FullName: "A", Email: "", Username: "a", Password: "p", AvatarPath: "/tmp/a"},
		{FullName: "A", Email: "a@x.io", Username: "\t", Password: "p", AvatarPath: "/tmp/a"},
		{FullName: "A", Email: "a@x.io", Username: "a", Password: "  ", AvatarPath: "/tmp/a"},
	}
	for _, input := range cases {
		_, err := f.auth.Register(ctx, input)
		assert.ErrorIs(t, err, ErrValidation)
	}

	var count int64
	require.NoError(t, f.db.Table("users").Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.uploader.uploaded)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.auth.Register(ctx, RegisterInput{
		FullName: "Other", Email: "other@example.com", Username: "ALICE", Password: "p", AvatarPath: "/tmp/a",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.auth.Register(ctx, RegisterInput{
		FullName: "Other", Email: "alice@example.com", Username: "other", Password: "p", AvatarPath: "/tmp/a",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRequiresAvatar(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), RegisterInput{
		FullName: "A", Email: "a@x.io", Username: "a", Password: "p",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "avatar file is required", err.Error())
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.uploader.fail["/tmp/bad.png"] = true

	_, err := f.auth.Register(context.Background(), RegisterInput{
		FullName: "A", Email: "a@x.io", Username: "a", Password: "p", AvatarPath: "/tmp/bad.png",
	})
	assert.ErrorIs(t, err, ErrInternal)

	var count int64
	require.NoError(t, f.db.Table("users").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterCoverFailureKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.uploader.fail["/tmp/cover.png"] = true

	user, err := f.auth.Register(context.Background(), RegisterInput{
		FullName: "A", Email: "a@x.io", Username: "a", Password: "p",
		AvatarPath: "/tmp/a.png", CoverImagePath: "/tmp/cover.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Avatar)
	assert.Empty(t, user.CoverImage)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	result, err := f.auth.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "secret-alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.Empty(t, result.User.PasswordHash)
	assert.Nil(t, result.User.RefreshToken)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	stored, err := f.users.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, result.Tokens.RefreshToken, *stored.RefreshToken)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.auth.Login(ctx, LoginInput{Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.Login(ctx, LoginInput{Username: "bob", Password: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.auth.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid user credentials", err.Error())
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), RegisterInput{
		FullName: "A", Email: "a@x.io", Username: "a", Password: strings.Repeat("x", 100), AvatarPath: "/tmp/a",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
