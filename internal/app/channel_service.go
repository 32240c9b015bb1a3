package app

import (
	"context"
	"log/slog"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

type WatchHistoryCache interface {
	Get(ctx context.Context, userID uint) ([]model.WatchedVideo, bool, error)
	Set(ctx context.Context, userID uint, videos []model.WatchedVideo) error
	Delete(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

// ChannelService composes the read views over users, subscriptions and
// videos, and owns the subscription and watch-history writes.
type ChannelService struct {
	userRepo         *repository.UserRepository
	subscriptionRepo *repository.SubscriptionRepository
	videoRepo        *repository.VideoRepository
	historyRepo      *repository.WatchHistoryRepository
	historyCache     WatchHistoryCache
	logger           *slog.Logger
}

func NewChannelService(
	userRepo *repository.UserRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	videoRepo *repository.VideoRepository,
	historyRepo *repository.WatchHistoryRepository,
	historyCache WatchHistoryCache,
	logger *slog.Logger,
) *ChannelService {
	return &ChannelService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		videoRepo:        videoRepo,
		historyRepo:      historyRepo,
		historyCache:     historyCache,
		logger:           logger,
	}
}

// GetChannelProfile builds the public channel view. viewerID 0 means anonymous.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*model.ChannelProfile, error) {
	channel, err := s.findChannel(ctx, username)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subscriptionRepo.ListSubscriberIDs(ctx, channel.ID)
	if err != nil {
		return nil, internalError("load channel subscribers failed", err)
	}
	subscribedTo, err := s.subscriptionRepo.CountBySubscriber(ctx, channel.ID)
	if err != nil {
		return nil, internalError("load channel subscriptions failed", err)
	}

	isSubscribed := false
	if viewerID != 0 {
		for _, id := range subscribers {
			if id == viewerID {
				isSubscribed = true
				break
			}
		}
	}

	return &model.ChannelProfile{
		ID:                        channel.ID,
		FullName:                  channel.FullName,
		Username:                  channel.Username,
		Email:                     channel.Email,
		Avatar:                    channel.Avatar,
		CoverImage:                channel.CoverImage,
		SubscribersCount:          len(subscribers),
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

func (s *ChannelService) Subscribe(ctx context.Context, subscriberID uint, username string) (*model.ChannelProfile, error) {
	channel, err := s.findChannel(ctx, username)
	if err != nil {
		return nil, err
	}
	if channel.ID == subscriberID {
		return nil, ErrSelfSubscription
	}
	if err := s.subscriptionRepo.Create(ctx, subscriberID, channel.ID); err != nil {
		return nil, internalError("subscribe failed", err)
	}
	return s.GetChannelProfile(ctx, channel.Username, subscriberID)
}

func (s *ChannelService) Unsubscribe(ctx context.Context, subscriberID uint, username string) (*model.ChannelProfile, error) {
	channel, err := s.findChannel(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Delete(ctx, subscriberID, channel.ID); err != nil {
		return nil, internalError("unsubscribe failed", err)
	}
	return s.GetChannelProfile(ctx, channel.Username, subscriberID)
}

// GetWatchHistory returns the user's videos in stored order, each with its
// owner's public projection. Videos that no longer exist are skipped.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID uint) ([]model.WatchedVideo, error) {
	user, err := s.userRepo.GetSafeByID(ctx, userID)
	if err != nil {
		return nil, internalError("load user failed", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, userID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.Get(ctx, userID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	videoIDs, err := s.historyRepo.ListVideoIDs(ctx, userID)
	if err != nil {
		return nil, internalError("load watch history failed", err)
	}
	videos, err := s.videoRepo.ListByIDs(ctx, videoIDs)
	if err != nil {
		return nil, internalError("load watch history videos failed", err)
	}

	ownerIDs := make([]uint, 0, len(videos))
	seen := make(map[uint]struct{}, len(videos))
	for _, video := range videos {
		if _, ok := seen[video.OwnerID]; ok {
			continue
		}
		seen[video.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, video.OwnerID)
	}
	owners, err := s.userRepo.ListOwnerSummaries(ctx, ownerIDs)
	if err != nil {
		return nil, internalError("load video owners failed", err)
	}

	history := make([]model.WatchedVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		video, ok := videos[id]
		if !ok {
			continue
		}
		item := model.WatchedVideo{Video: video}
		if owner, ok := owners[video.OwnerID]; ok {
			item.Owner = &owner
		}
		history = append(history, item)
	}

	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, userID); dirtyErr == nil && !dirty {
			if err := s.historyCache.Set(ctx, userID, history); err != nil {
				s.logger.WarnContext(ctx, "cache watch history failed", "user_id", userID, "error", err)
			}
		}
	}
	return history, nil
}

func (s *ChannelService) AddToWatchHistory(ctx context.Context, userID, videoID uint) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return internalError("load video failed", err)
	}
	if video == nil {
		return ErrVideoNotFound
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, userID)
		_ = s.historyCache.Delete(ctx, userID)
	}
	if err := s.historyRepo.Append(ctx, userID, videoID); err != nil {
		return internalError("append watch history failed", err)
	}
	return nil
}

func (s *ChannelService) findChannel(ctx context.Context, username string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	channel, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, internalError("load channel failed", err)
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	return channel, nil
}
