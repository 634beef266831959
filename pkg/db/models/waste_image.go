package models

import (
	"time"

	"github.com/google/uuid"
)

// WasteImage records a validated sorting submission. The row is written only
// after the full validation pipeline succeeds and is immutable afterwards.
// Image holds the comma-separated reference list, front view first.
type WasteImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Level     int       `gorm:"not null"`
	Image     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (WasteImage) TableName() string {
	return "wasteimages"
}
