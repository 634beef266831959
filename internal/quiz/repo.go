package quiz

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

// Repository exposes quiz-score persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a quiz repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertScore appends one score event row.
func (r *Repository) InsertScore(ctx context.Context, score *models.QuizScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

// AddPoints folds the score into the profile's running total. The affected
// row count tells the caller whether the profile exists.
func (r *Repository) AddPoints(ctx context.Context, userID uuid.UUID, score int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", score))
	return result.RowsAffected, result.Error
}

// TotalPoints reads the profile's denormalized points sum.
func (r *Repository) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).
		Select("points").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		return 0, err
	}
	return profile.Points, nil
}
