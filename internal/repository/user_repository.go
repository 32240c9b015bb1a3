package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

var secretColumns = []string{"password_hash", "refresh_token"}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// GetSafeByID loads a user without the password hash and refresh token columns.
func (r *UserRepository) GetSafeByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Omit(secretColumns...).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Omit(secretColumns...).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Omit(secretColumns...).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

// FindByIdentifier matches either column; empty arguments are ignored.
func (r *UserRepository) FindByIdentifier(ctx context.Context, username, email string) (*model.User, error) {
	query := r.db.WithContext(ctx)
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return nil, nil
	}

	var user model.User
	if err := query.Order("id ASC").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by identifier failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, fullName, email string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]any{
		"full_name": fullName,
		"email":     email,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user profile failed: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update user password failed: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateAsset(ctx context.Context, id uint, slot model.AssetSlot, asset model.Asset) error {
	var urlColumn, idColumn string
	switch slot {
	case model.AssetSlotAvatar:
		urlColumn, idColumn = "avatar", "avatar_id"
	case model.AssetSlotCoverImage:
		urlColumn, idColumn = "cover_image", "cover_image_id"
	default:
		return fmt.Errorf("unknown asset slot %q", slot)
	}

	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]any{
		urlColumn: asset.URL,
		idColumn:  asset.ID,
	}).Error
	if err != nil {
		return fmt.Errorf("update user %s failed: %w", slot, err)
	}
	return nil
}

// SetRefreshToken overwrites the stored refresh token; nil clears it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	var value any = gorm.Expr("NULL")
	if token != nil {
		value = *token
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", value).Error; err != nil {
		return fmt.Errorf("update refresh token failed: %w", err)
	}
	return nil
}

// ListOwnerSummaries batch-loads the public projection for the given ids.
func (r *UserRepository) ListOwnerSummaries(ctx context.Context, ids []uint) (map[uint]model.OwnerSummary, error) {
	out := make(map[uint]model.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var owners []model.OwnerSummary
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("id", "full_name", "username", "avatar").
		Where("id IN ?", ids).
		Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("list video owners failed: %w", err)
	}
	for _, owner := range owners {
		out[owner.ID] = owner
	}
	return out, nil
}
