package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

func TestChannelProfileCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")

	_, err := f.channels.Subscribe(ctx, bob.ID, "alice")
	require.NoError(t, err)
	_, err = f.channels.Subscribe(ctx, carol.ID, "alice")
	require.NoError(t, err)
	_, err = f.channels.Subscribe(ctx, alice.ID, "carol")
	require.NoError(t, err)

	asBob, err := f.channels.GetChannelProfile(ctx, " ALICE ", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, asBob.SubscribersCount)
	assert.Equal(t, 1, asBob.ChannelsSubscribedToCount)
	assert.True(t, asBob.IsSubscribed)

	anonymous, err := f.channels.GetChannelProfile(ctx, "alice", 0)
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)
	assert.Equal(t, 2, anonymous.SubscribersCount)

	asSelf, err := f.channels.GetChannelProfile(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, asSelf.IsSubscribed)
}

func TestChannelProfileErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.channels.GetChannelProfile(ctx, "   ", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.channels.GetChannelProfile(ctx, "ghost", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "channel does not exist", err.Error())
}

func TestSubscribeIdempotentAndUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	for i := 0; i < 2; i++ {
		profile, err := f.channels.Subscribe(ctx, bob.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, profile.SubscribersCount)
		assert.True(t, profile.IsSubscribed)
	}

	_, err := f.channels.Subscribe(ctx, alice.ID, "alice")
	assert.ErrorIs(t, err, ErrValidation)

	profile, err := f.channels.Unsubscribe(ctx, bob.ID, "alice")
	require.NoError(t, err)
	assert.Zero(t, profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)
}

func TestWatchHistoryOrderAndOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	videos := repository.NewVideoRepository(f.db)
	first := &model.Video{Title: "first", VideoFile: "v1", Thumbnail: "t1", Description: "d", OwnerID: bob.ID}
	second := &model.Video{Title: "second", VideoFile: "v2", Thumbnail: "t2", Description: "d", OwnerID: alice.ID}
	require.NoError(t, videos.Create(ctx, first))
	require.NoError(t, videos.Create(ctx, second))

	require.NoError(t, f.channels.AddToWatchHistory(ctx, alice.ID, second.ID))
	require.NoError(t, f.channels.AddToWatchHistory(ctx, alice.ID, first.ID))

	history, err := f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Title)
	assert.Equal(t, "first", history[1].Title)
	require.NotNil(t, history[1].Owner)
	assert.Equal(t, "bob", history[1].Owner.Username)
	assert.Equal(t, bob.Avatar, history[1].Owner.Avatar)

	err = f.channels.AddToWatchHistory(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchHistoryEmptyAndMissingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	history, err := f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err = f.channels.GetWatchHistory(ctx, alice.ID+50)
	assert.ErrorIs(t, err, ErrNotFound)
}

type memoryHistoryCache struct {
	entries map[uint][]model.WatchedVideo
	dirty   map[uint]bool
	sets    int
}

func (m *memoryHistoryCache) Get(_ context.Context, userID uint) ([]model.WatchedVideo, bool, error) {
	v, ok := m.entries[userID]
	return v, ok, nil
}

func (m *memoryHistoryCache) Set(_ context.Context, userID uint, videos []model.WatchedVideo) error {
	m.sets++
	m.entries[userID] = videos
	return nil
}

func (m *memoryHistoryCache) Delete(_ context.Context, userID uint) error {
	delete(m.entries, userID)
	return nil
}

func (m *memoryHistoryCache) MarkDirty(_ context.Context, userID uint) error {
	m.dirty[userID] = true
	return nil
}

func (m *memoryHistoryCache) IsDirty(_ context.Context, userID uint) (bool, error) {
	return m.dirty[userID], nil
}

func TestWatchHistoryUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	cache := &memoryHistoryCache{entries: map[uint][]model.WatchedVideo{}, dirty: map[uint]bool{}}
	f.channels.historyCache = cache

	video := &model.Video{Title: "clip", VideoFile: "v", Thumbnail: "t", Description: "d", OwnerID: alice.ID}
	require.NoError(t, repository.NewVideoRepository(f.db).Create(ctx, video))

	_, err := f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, f.channels.AddToWatchHistory(ctx, alice.ID, video.ID))
	assert.True(t, cache.dirty[alice.ID])
	_, cached := cache.entries[alice.ID]
	assert.False(t, cached)

	history, err := f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, cache.sets)

	cache.dirty[alice.ID] = false
	_, err = f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets)

	hit, err := f.channels.GetWatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, hit, 1)
	assert.Equal(t, 2, cache.sets)
}
