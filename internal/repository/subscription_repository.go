package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts the edge once; repeating it is a no-op.
func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID uint) error {
	edge := &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
	if err != nil {
		return fmt.Errorf("create subscription failed: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uint) error {
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{}).Error
	if err != nil {
		return fmt.Errorf("delete subscription failed: %w", err)
	}
	return nil
}

// ListSubscriberIDs returns everyone following the channel.
func (r *SubscriptionRepository) ListSubscriberIDs(ctx context.Context, channelID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Order("id ASC").
		Pluck("subscriber_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list subscribers failed: %w", err)
	}
	return ids, nil
}

func (r *SubscriptionRepository) CountBySubscriber(ctx context.Context, subscriberID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count subscriptions failed: %w", err)
	}
	return int(count), nil
}
