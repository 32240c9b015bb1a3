package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vidtube/internal/logging"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/testutil"
)

func init() {
	passwordCost = bcrypt.MinCost
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	fail     map[string]bool
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (*model.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[localPath] {
		return nil, errors.New("asset host unavailable")
	}
	f.uploaded = append(f.uploaded, localPath)
	id := fmt.Sprintf("asset-%d", len(f.uploaded))
	return &model.Asset{URL: "https://cdn.test/" + id, ID: id}, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []model.AssetCleanupJob
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, job model.AssetCleanupJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakePublisher) published() []model.AssetCleanupJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.AssetCleanupJob(nil), f.jobs...)
}

type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	tokens    *TokenService
	auth      *AuthService
	accounts  *AccountService
	channels  *ChannelService
	uploader  *fakeUploader
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := logging.Discard()

	users := repository.NewUserRepository(db)
	uploader := &fakeUploader{fail: map[string]bool{}}
	publisher := &fakePublisher{}
	tokens := NewTokenService(users, TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
	}, logger)

	channels := NewChannelService(
		users,
		repository.NewSubscriptionRepository(db),
		repository.NewVideoRepository(db),
		repository.NewWatchHistoryRepository(db),
		nil,
		logger,
	)

	return &fixture{
		db:        db,
		users:     users,
		tokens:    tokens,
		auth:      NewAuthService(users, tokens, uploader, publisher, logger),
		accounts:  NewAccountService(users, uploader, publisher, logger),
		channels:  channels,
		uploader:  uploader,
		publisher: publisher,
	}
}

func (f *fixture) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		FullName:   "User " + username,
		Email:      username + "@example.com",
		Username:   username,
		Password:   "secret-" + username,
		AvatarPath: "/tmp/" + username + "-avatar.png",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}
