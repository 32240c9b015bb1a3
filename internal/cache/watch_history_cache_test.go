package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/model"
)

func newTestCache(t *testing.T) (*WatchHistoryCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWatchHistoryCache(client, time.Minute, time.Second), s
}

func TestWatchHistoryCacheRoundTrip(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	videos := []model.WatchedVideo{{
		Video: model.Video{ID: 3, Title: "intro"},
		Owner: &model.OwnerSummary{ID: 9, Username: "bob"},
	}}
	require.NoError(t, c.Set(ctx, 1, videos))

	got, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "intro", got[0].Title)
	assert.Equal(t, "bob", got[0].Owner.Username)

	s.FastForward(2 * time.Minute)
	_, hit, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestWatchHistoryCacheDirtyMarker(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.MarkDirty(ctx, 5))
	dirty, err := c.IsDirty(ctx, 5)
	require.NoError(t, err)
	assert.True(t, dirty)

	s.FastForward(2 * time.Second)
	dirty, err = c.IsDirty(ctx, 5)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestWatchHistoryCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 2, []model.WatchedVideo{}))
	require.NoError(t, c.Delete(ctx, 2))
	_, hit, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, hit)
}
