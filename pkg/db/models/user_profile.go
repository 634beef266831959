package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the one-to-one gamification profile attached to an account.
// Counters are initialized on insert and only ever move forward; the upsert
// path never touches them.
type UserProfile struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	Bio          string    `gorm:"type:text"`
	Location     string    `gorm:"type:text"`
	Age          int       `gorm:"not null;default:0"`
	ProfileImage string    `gorm:"column:profile_image;type:text"`
	Lat          *float64  `gorm:"column:lat"`
	Lng          *float64  `gorm:"column:lng"`
	Level        int       `gorm:"not null;default:0"`
	Points       int       `gorm:"not null;default:0"`
	Visits       int       `gorm:"not null;default:0"`
	Streaks      int       `gorm:"not null;default:0"`
	WasteGrams   int       `gorm:"column:waste_grams;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}
