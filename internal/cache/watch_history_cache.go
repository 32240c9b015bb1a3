package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"vidtube/internal/model"
)

// WatchHistoryCache stores composed watch-history views. A short-lived dirty
// marker blocks re-population while a write is in flight.
type WatchHistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewWatchHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *WatchHistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &WatchHistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *WatchHistoryCache) Get(ctx context.Context, userID uint) ([]model.WatchedVideo, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get watch history failed: %w", err)
	}

	var videos []model.WatchedVideo
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached watch history failed: %w", err)
	}
	return videos, true, nil
}

func (c *WatchHistoryCache) Set(ctx context.Context, userID uint, videos []model.WatchedVideo) error {
	payload, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("marshal watch history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(userID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set watch history failed: %w", err)
	}
	return nil
}

func (c *WatchHistoryCache) Delete(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.historyKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete watch history failed: %w", err)
	}
	return nil
}

func (c *WatchHistoryCache) MarkDirty(ctx context.Context, userID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *WatchHistoryCache) IsDirty(ctx context.Context, userID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *WatchHistoryCache) historyKey(userID uint) string {
	return fmt.Sprintf("watch:history:%d", userID)
}

func (c *WatchHistoryCache) dirtyKey(userID uint) string {
	return fmt.Sprintf("watch:history:dirty:%d", userID)
}
