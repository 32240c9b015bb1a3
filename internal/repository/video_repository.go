package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("create video failed: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uint) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query video by id failed: %w", err)
	}
	return &video, nil
}

// ListByIDs batch-loads videos keyed by id; order is the caller's concern.
func (r *VideoRepository) ListByIDs(ctx context.Context, ids []uint) (map[uint]model.Video, error) {
	out := make(map[uint]model.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var videos []model.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos failed: %w", err)
	}
	for _, video := range videos {
		out[video.ID] = video
	}
	return out, nil
}
