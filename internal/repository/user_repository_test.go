package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/testutil"
)

func newUser(username string) *model.User {
	return &model.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "User " + username,
		Avatar:       "http://assets/" + username + ".png",
		PasswordHash: "hash",
	}
}

func TestUserRepositoryCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	require.NoError(t, repo.Create(ctx, newUser("alice")))

	dup := newUser("alice")
	dup.Email = "other@example.com"
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)
}

func TestUserRepositoryFindByIdentifier(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	require.NoError(t, repo.Create(ctx, newUser("alice")))

	byName, err := repo.FindByIdentifier(ctx, "alice", "")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "hash", byName.PasswordHash)

	byEmail, err := repo.FindByIdentifier(ctx, "", "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.FindByIdentifier(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := repo.FindByIdentifier(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUserRepositorySafeLoadsOmitSecrets(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	user := newUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	token := "refresh"
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, &token))

	safe, err := repo.GetSafeByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, safe)
	assert.Empty(t, safe.PasswordHash)
	assert.Nil(t, safe.RefreshToken)

	full, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, full.RefreshToken)
	assert.Equal(t, "refresh", *full.RefreshToken)

	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, nil))
	full, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, full.RefreshToken)
}

func TestUserRepositoryUpdates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	alice := newUser("alice")
	bob := newUser("bob")
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	require.NoError(t, repo.UpdateProfile(ctx, alice.ID, "Alice A", "alice2@example.com"))
	assert.ErrorIs(t, repo.UpdateProfile(ctx, bob.ID, "Bob", "alice2@example.com"), repository.ErrDuplicate)

	require.NoError(t, repo.UpdateAsset(ctx, alice.ID, model.AssetSlotCoverImage, model.Asset{URL: "http://cover", ID: "cover-1"}))
	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A", got.FullName)
	assert.Equal(t, "http://cover", got.CoverImage)
	assert.Equal(t, "cover-1", got.CoverImageID)

	assert.Error(t, repo.UpdateAsset(ctx, alice.ID, model.AssetSlot("banner"), model.Asset{}))
}

func TestUserRepositoryListOwnerSummaries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))

	owners, err := repo.ListOwnerSummaries(ctx, []uint{alice.ID, 999})
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, model.OwnerSummary{
		ID:       alice.ID,
		FullName: "User alice",
		Username: "alice",
		Avatar:   "http://assets/alice.png",
	}, owners[alice.ID])

	empty, err := repo.ListOwnerSummaries(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
