package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents the canonical identity entity. The role column is free
// text ("user", "company") and carries no authorization semantics beyond what
// callers attach to it.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"type:text;not null"`
	LastActiveAt time.Time `gorm:"column:last_active_at"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Account) TableName() string {
	return "users"
}
