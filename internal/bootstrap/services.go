package bootstrap

import (
	"log/slog"

	"gorm.io/gorm"

	"vidtube/internal/app"
	"vidtube/internal/config"
	"vidtube/internal/repository"
)

// Services holds the application layer built over one database handle.
type Services struct {
	Users    *repository.UserRepository
	Tokens   *app.TokenService
	Auth     *app.AuthService
	Accounts *app.AccountService
	Channels *app.ChannelService
}

func NewServices(
	db *gorm.DB,
	cfg *config.Config,
	historyCache app.WatchHistoryCache,
	assets app.AssetUploader,
	cleanup app.AssetCleanupPublisher,
	logger *slog.Logger,
) *Services {
	userRepo := repository.NewUserRepository(db)
	tokens := app.NewTokenService(userRepo, app.TokenConfig{
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL(),
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenTTL(),
	}, logger)

	return &Services{
		Users:    userRepo,
		Tokens:   tokens,
		Auth:     app.NewAuthService(userRepo, tokens, assets, cleanup, logger),
		Accounts: app.NewAccountService(userRepo, assets, cleanup, logger),
		Channels: app.NewChannelService(
			userRepo,
			repository.NewSubscriptionRepository(db),
			repository.NewVideoRepository(db),
			repository.NewWatchHistoryRepository(db),
			historyCache,
			logger,
		),
	}
}
