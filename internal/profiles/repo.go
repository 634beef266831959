package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

// Repository exposes user-profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or updates the profile keyed on user_id. Gamification
// counters are only written on insert; the conflict clause never touches
// them, so repeated saves cannot reset progress.
func (r *Repository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "bio", "location", "age", "profile_image", "lat", "lng", "updated_at",
			}),
		}).
		Create(profile).Error
}

// Get loads the profile for one account.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// AllWithCoordinates returns every profile that has been geocoded.
func (r *Repository) AllWithCoordinates(ctx context.Context) ([]models.UserProfile, error) {
	var rows []models.UserProfile
	if err := r.db.WithContext(ctx).
		Where("lat IS NOT NULL AND lng IS NOT NULL").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
