package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *TokenService
	assets   AssetUploader
	janitor  assetJanitor
	logger   *slog.Logger
}

type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User   *model.User
	Tokens *TokenPair
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *TokenService,
	assets AssetUploader,
	cleanup AssetCleanupPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		assets:   assets,
		janitor:  assetJanitor{publisher: cleanup, logger: logger},
		logger:   logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))
	password := input.Password

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(password) == "" {
		return nil, ErrAllFieldsRequired
	}

	existing, err := s.userRepo.FindByIdentifier(ctx, username, email)
	if err != nil {
		return nil, internalError("check existing user failed", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if strings.TrimSpace(input.AvatarPath) == "" {
		return nil, ErrAvatarRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, passwordError(err)
	}

	avatar, err := s.assets.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, internalError("error while uploading avatar", err)
	}

	var cover model.Asset
	if strings.TrimSpace(input.CoverImagePath) != "" {
		uploaded, err := s.assets.Upload(ctx, input.CoverImagePath)
		if err != nil {
			s.logger.WarnContext(ctx, "cover image upload failed, continuing without it", "error", err)
		} else {
			cover = *uploaded
		}
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Avatar:       avatar.URL,
		AvatarID:     avatar.ID,
		CoverImage:   cover.URL,
		CoverImageID: cover.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.janitor.discard(ctx, 0, model.AssetSlotAvatar, avatar.ID)
		s.janitor.discard(ctx, 0, model.AssetSlotCoverImage, cover.ID)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, internalError("something went wrong while registering the user", err)
	}

	created, err := s.userRepo.GetSafeByID(ctx, user.ID)
	if err != nil || created == nil {
		return nil, internalError("something went wrong while registering the user", err)
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" && email == "" {
		return nil, ErrIdentifierRequired
	}

	user, err := s.userRepo.FindByIdentifier(ctx, username, email)
	if err != nil {
		return nil, internalError("login lookup failed", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !VerifyPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokens.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	loggedIn, err := s.userRepo.GetSafeByID(ctx, user.ID)
	if err != nil || loggedIn == nil {
		return nil, internalError("load logged in user failed", err)
	}
	return &LoginResult{User: loggedIn, Tokens: tokens}, nil
}

// Logout drops the stored refresh token so the current chain cannot rotate.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		return internalError("logout failed", err)
	}
	return nil
}

func (s *AuthService) RefreshTokens(ctx context.Context, presented string) (*TokenPair, error) {
	return s.tokens.RotateRefreshToken(ctx, strings.TrimSpace(presented))
}
