package waste

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
)

// Repository exposes waste-image persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a waste repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert records one fully validated upload.
func (r *Repository) Insert(ctx context.Context, image *models.WasteImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}
