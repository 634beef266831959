package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizScore is an append-only score event. The profile points total is a
// denormalized running sum maintained in the same transaction that inserts
// the event.
type QuizScore struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Score     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (QuizScore) TableName() string {
	return "quiz_scores"
}
