package leaderboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

// Repository exposes the leaderboard read path over user profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a leaderboard repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TopByPoints returns the highest-scoring profiles. Ties keep storage
// order, which the ranking deliberately does not refine.
func (r *Repository) TopByPoints(ctx context.Context, limit int) ([]models.UserProfile, error) {
	var rows []models.UserProfile
	if err := r.db.WithContext(ctx).
		Order("points DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
