package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate record")

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Video{},
		&model.WatchHistoryEntry{},
	); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
