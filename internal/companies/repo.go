package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

// Repository exposes company-profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a companies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or updates the company profile keyed on user_id. The
// visit counter is left untouched on update.
func (r *Repository) Upsert(ctx context.Context, profile *models.CompanyProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_name", "location", "lat", "lng", "contact_number",
				"profile_image", "building_image", "price", "updated_at",
			}),
		}).
		Create(profile).Error
}

// Get loads the company profile for one account.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
