package model

import "time"

type Video struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VideoFile   string    `gorm:"size:512;not null" json:"videoFile"`
	Thumbnail   string    `gorm:"size:512;not null" json:"thumbnail"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	IsPublished bool      `gorm:"not null;default:true" json:"isPublished"`
	OwnerID     uint      `gorm:"not null;index" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WatchHistoryEntry keeps a user's history ordered by insertion (ID).
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	VideoID   uint      `gorm:"not null"`
	CreatedAt time.Time
}
