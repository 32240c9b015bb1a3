package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"vidtube/internal/metrics"
	"vidtube/internal/model"
	"vidtube/internal/pkg/jwtutil"
	"vidtube/internal/repository"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenService issues access/refresh pairs and keeps exactly one valid
// refresh token per user on the user record.
type TokenService struct {
	userRepo *repository.UserRepository
	cfg      TokenConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewTokenService(userRepo *repository.UserRepository, cfg TokenConfig, logger *slog.Logger) *TokenService {
	return &TokenService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TokenService) IssueAccessToken(user *model.User) (string, error) {
	return jwtutil.GenerateAccessToken(s.cfg.AccessSecret, s.cfg.AccessTTL, s.now(), jwtutil.AccessSubject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return jwtutil.GenerateRefreshToken(s.cfg.RefreshSecret, s.cfg.RefreshTTL, s.now(), userID)
}

// IssueTokenPair mints both tokens and persists the refresh token, replacing
// any previous one. Concurrent calls for one user: last write wins.
func (s *TokenService) IssueTokenPair(ctx context.Context, userID uint) (*TokenPair, error) {
	const failure = "something went wrong while generating refresh and access token"

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(failure, err)
	}
	if user == nil {
		return nil, internalError(failure, errors.New("user disappeared before token issue"))
	}

	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, internalError(failure, err)
	}
	refresh, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, internalError(failure, err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, internalError(failure, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) VerifyAccessToken(token string) (*jwtutil.AccessClaims, error) {
	claims, err := jwtutil.ParseAccessToken(s.cfg.AccessSecret, token)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

func (s *TokenService) VerifyRefreshToken(token string) (*jwtutil.RefreshClaims, error) {
	claims, err := jwtutil.ParseRefreshToken(s.cfg.RefreshSecret, token)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

// RotateRefreshToken exchanges the presented refresh token for a new pair.
// Presenting any token other than the stored one is treated as reuse.
func (s *TokenService) RotateRefreshToken(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		metrics.TokenRotations.WithLabelValues("missing").Inc()
		return nil, ErrUnauthorizedRequest
	}

	claims, err := s.VerifyRefreshToken(presented)
	if err != nil {
		metrics.TokenRotations.WithLabelValues("invalid").Inc()
		return nil, wrapError(ErrUnauthorized, err.Error(), err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, internalError("load user for refresh failed", err)
	}
	if user == nil {
		metrics.TokenRotations.WithLabelValues("invalid").Inc()
		return nil, ErrUserNotFound
	}

	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		metrics.TokenRotations.WithLabelValues("reused").Inc()
		s.logger.WarnContext(ctx, "refresh token mismatch", "user_id", user.ID)
		return nil, ErrRefreshTokenReused
	}

	pair, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.TokenRotations.WithLabelValues("rotated").Inc()
	return pair, nil
}

func tokenError(err error) error {
	if errors.Is(err, jwtutil.ErrTokenExpired) {
		return wrapError(ErrInvalidToken, "token expired", err)
	}
	return wrapError(ErrInvalidToken, "invalid token", err)
}
