package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyProfile is the one-to-one pickup-company profile attached to an
// account with a "company" role.
type CompanyProfile struct {
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	CompanyName   string          `gorm:"column:company_name;type:text;not null"`
	Location      string          `gorm:"type:text"`
	Lat           *float64        `gorm:"column:lat"`
	Lng           *float64        `gorm:"column:lng"`
	ContactNumber string          `gorm:"column:contact_number;type:text"`
	ProfileImage  string          `gorm:"column:profile_image;type:text"`
	BuildingImage string          `gorm:"column:building_image;type:text"`
	Visits        int             `gorm:"not null;default:0"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyProfile) TableName() string {
	return "company_profile"
}
