package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// AccountService mutates the caller's own record. The user id always comes
// from the session identity.
type AccountService struct {
	userRepo *repository.UserRepository
	assets   AssetUploader
	janitor  assetJanitor
	logger   *slog.Logger
}

type UpdateAccountInput struct {
	FullName string
	Email    string
}

type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

func NewAccountService(
	userRepo *repository.UserRepository,
	assets AssetUploader,
	cleanup AssetCleanupPublisher,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		assets:   assets,
		janitor:  assetJanitor{publisher: cleanup, logger: logger},
		logger:   logger,
	}
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID uint, input UpdateAccountInput) (*model.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || email == "" {
		return nil, ErrAllFieldsRequired
	}

	holder, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internalError("update account failed", err)
	}
	if holder != nil && holder.ID != userID {
		return nil, ErrEmailTaken
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, fullName, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, internalError("update account failed", err)
	}
	return s.reload(ctx, userID)
}

func (s *AccountService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	if input.OldPassword == "" || strings.TrimSpace(input.NewPassword) == "" {
		return ErrPasswordsRequired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return internalError("change password failed", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !VerifyPassword(user.PasswordHash, input.OldPassword) {
		return ErrInvalidOldPassword
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return passwordError(err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return internalError("change password failed", err)
	}
	return nil
}

func (s *AccountService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*model.User, error) {
	return s.replaceAsset(ctx, userID, model.AssetSlotAvatar, localPath)
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*model.User, error) {
	return s.replaceAsset(ctx, userID, model.AssetSlotCoverImage, localPath)
}

// replaceAsset uploads the new file, points the user at it and only then
// schedules deletion of the previous asset.
func (s *AccountService) replaceAsset(ctx context.Context, userID uint, slot model.AssetSlot, localPath string) (*model.User, error) {
	if strings.TrimSpace(localPath) == "" {
		if slot == model.AssetSlotAvatar {
			return nil, ErrAvatarRequired
		}
		return nil, ErrCoverImageRequired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(fmt.Sprintf("update %s failed", slot), err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	previous := user.AvatarID
	if slot == model.AssetSlotCoverImage {
		previous = user.CoverImageID
	}

	asset, err := s.assets.Upload(ctx, localPath)
	if err != nil {
		return nil, internalError(fmt.Sprintf("error while uploading %s", slot), err)
	}

	if err := s.userRepo.UpdateAsset(ctx, userID, slot, *asset); err != nil {
		s.janitor.discard(ctx, userID, slot, asset.ID)
		return nil, internalError(fmt.Sprintf("update %s failed", slot), err)
	}

	if previous != asset.ID {
		s.janitor.discard(ctx, userID, slot, previous)
	}
	return s.reload(ctx, userID)
}

func (s *AccountService) reload(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.GetSafeByID(ctx, userID)
	if err != nil {
		return nil, internalError("reload user failed", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func passwordError(err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return wrapError(ErrValidation, "password is too long", err)
	}
	return internalError("hash password failed", err)
}
