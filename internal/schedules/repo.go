package schedules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	"github.com/ecosortapp/ecosort-backend/pkg/enums"
)

// Repository exposes pickup-schedule persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a schedules repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending schedule.
func (r *Repository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// ListByUser returns the user's schedules, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Schedule, error) {
	var rows []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCompany returns the company's schedules, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Schedule, error) {
	var rows []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AcceptPending flips a pending schedule to accepted. The status guard in
// the WHERE clause is the only defense against concurrent transitions; the
// affected row count tells the caller whether it won.
func (r *Repository) AcceptPending(ctx context.Context, id, companyID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND company_id = ? AND user_id = ? AND status = ?",
			id, companyID, userID, enums.ScheduleStatusPending).
		Updates(map[string]any{
			"status":     enums.ScheduleStatusAccepted,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// RejectPending flips a pending schedule to rejected, recording the reason
// and the counter-proposed date.
func (r *Repository) RejectPending(ctx context.Context, id, companyID, userID uuid.UUID, reason, date string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND company_id = ? AND user_id = ? AND status = ?",
			id, companyID, userID, enums.ScheduleStatusPending).
		Updates(map[string]any{
			"status":     enums.ScheduleStatusRejected,
			"reason":     reason,
			"date":       date,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// IncrementUserVisits bumps the user's visit counter.
func (r *Repository) IncrementUserVisits(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("visits", gorm.Expr("visits + 1")).Error
}

// IncrementCompanyVisits bumps the company's visit counter.
func (r *Repository) IncrementCompanyVisits(ctx context.Context, companyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CompanyProfile{}).
		Where("user_id = ?", companyID).
		UpdateColumn("visits", gorm.Expr("visits + 1")).Error
}
