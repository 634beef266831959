package models

import (
	"time"

	"github.com/ecosortapp/ecosort-backend/pkg/enums"
	"github.com/google/uuid"
)

// Schedule is a pickup request between a user and a company. Status starts at
// pending and transitions exactly once; accepted and rejected are terminal.
// On reject the date is rewritten with the company's counter-proposal.
type Schedule struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID            `gorm:"column:company_id;type:uuid;not null;index"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Date      string               `gorm:"type:text;not null"`
	Time      string               `gorm:"type:text;not null"`
	Status    enums.ScheduleStatus `gorm:"type:text;not null;default:pending"`
	Reason    *string              `gorm:"type:text"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Schedule) TableName() string {
	return "scheduling"
}
