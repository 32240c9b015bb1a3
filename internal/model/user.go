package model

import "time"

// User is the credential record. Secrets and asset ids never leave the
// process through JSON.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	FullName     string    `gorm:"size:128;not null;index" json:"fullName"`
	Avatar       string    `gorm:"size:512;not null" json:"avatar"`
	AvatarID     string    `gorm:"size:255" json:"-"`
	CoverImage   string    `gorm:"size:512" json:"coverImage"`
	CoverImageID string    `gorm:"size:255" json:"-"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RefreshToken *string   `gorm:"size:1024" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AssetSlot names a replaceable user image.
type AssetSlot string

const (
	AssetSlotAvatar     AssetSlot = "avatar"
	AssetSlotCoverImage AssetSlot = "coverImage"
)
