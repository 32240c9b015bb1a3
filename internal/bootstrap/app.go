package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/logging"
	"vidtube/internal/metrics"
	mysqlClient "vidtube/internal/platform/mysql"
	rabbitmqClient "vidtube/internal/platform/rabbitmq"
	redisClient "vidtube/internal/platform/redis"
	s3Client "vidtube/internal/platform/s3"
	"vidtube/internal/repository"
	"vidtube/internal/worker"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Registry      *prometheus.Registry
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Assets        *s3Client.AssetHost
	CleanupWorker *worker.AssetCleanupWorker
	Services      *Services

	StartedAt time.Time
}

// New connects every backing service and fails on the first one that is
// unreachable, releasing whatever was already opened.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger := logging.NewLogger(cfg.Log.Level, cfg.App.Name, cfg.App.Env)
	slog.SetDefault(logger)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  metrics.NewRegistry(),
		StartedAt: time.Now(),
	}
	if err := app.connect(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQL)
	if err != nil {
		return err
	}
	a.MySQL = mysqlDB
	if err := repository.Migrate(mysqlDB); err != nil {
		return err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	a.Redis = redisCli

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	a.MQConn = mqConn

	assets, err := s3Client.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	a.Assets = assets

	cleanupWorker := worker.NewAssetCleanupWorker(mqConn, assets, cfg.RabbitMQ.AssetCleanupQueue, a.Logger)
	if err := cleanupWorker.Start(ctx); err != nil {
		return fmt.Errorf("start asset cleanup worker failed: %w", err)
	}
	a.CleanupWorker = cleanupWorker

	historyCache := cache.NewWatchHistoryCache(
		redisCli,
		time.Duration(cfg.Redis.WatchHistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.WatchHistoryDirtyTTLSeconds)*time.Second,
	)
	a.Services = NewServices(
		mysqlDB,
		cfg,
		historyCache,
		assets,
		rabbitmqClient.NewAssetCleanupPublisher(mqConn, cfg.RabbitMQ.AssetCleanupQueue),
		a.Logger,
	)
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CleanupWorker != nil {
		a.CleanupWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
