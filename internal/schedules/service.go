package schedules

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	"github.com/ecosortapp/ecosort-backend/pkg/enums"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
)

// CreateRequest is the payload for proposing a pickup.
type CreateRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
}

// DecisionRequest is the payload for accepting a pending pickup.
type DecisionRequest struct {
	ID        string `json:"id" validate:"required,uuid"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
}

// RejectRequest is the payload for rejecting a pending pickup with a
// counter-proposed date.
type RejectRequest struct {
	ID        string `json:"id" validate:"required,uuid"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
	Reason    string `json:"reason" validate:"required"`
	Date      string `json:"date" validate:"required"`
}

// ScheduleView is the projection of one schedule row.
type ScheduleView struct {
	ID        uuid.UUID            `json:"id"`
	CompanyID uuid.UUID            `json:"company_id"`
	UserID    uuid.UUID            `json:"user_id"`
	Date      string               `json:"date"`
	Time      string               `json:"time"`
	Status    enums.ScheduleStatus `json:"status"`
	Reason    *string              `json:"reason,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Service exposes the scheduling operations used by the controllers.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ScheduleView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ScheduleView, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID) ([]ScheduleView, error)
	Accept(ctx context.Context, req DecisionRequest) error
	Reject(ctx context.Context, req RejectRequest) error
}

type schedulesRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Schedule, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Schedule, error)
	AcceptPending(ctx context.Context, id, companyID, userID uuid.UUID) (int64, error)
	RejectPending(ctx context.Context, id, companyID, userID uuid.UUID, reason, date string) (int64, error)
	IncrementUserVisits(ctx context.Context, userID uuid.UUID) error
	IncrementCompanyVisits(ctx context.Context, companyID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies for the schedules service.
type ServiceParams struct {
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) schedulesRepository
}

type service struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) schedulesRepository
}

// NewService builds the schedules service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) schedulesRepository {
			return NewRepository(tx)
		}
	}
	return &service{
		tx:          params.TxRunner,
		repoFactory: factory,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*ScheduleView, error) {
	companyID, userID, err := parseParties(req.CompanyID, req.UserID)
	if err != nil {
		return nil, err
	}
	date := strings.TrimSpace(req.Date)
	timeSlot := strings.TrimSpace(req.Time)
	if date == "" || timeSlot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date and time are required")
	}

	schedule := &models.Schedule{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Date:      date,
		Time:      timeSlot,
		Status:    enums.ScheduleStatusPending,
	}

	var view ScheduleView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repoFactory(tx).Create(ctx, schedule); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create schedule")
		}
		view = viewOf(schedule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]ScheduleView, error) {
	var views []ScheduleView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repoFactory(tx).ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user schedules")
		}
		views = viewsOf(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *service) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]ScheduleView, error) {
	var views []ScheduleView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repoFactory(tx).ListByCompany(ctx, companyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list company schedules")
		}
		views = viewsOf(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Accept flips a pending schedule to accepted and credits both parties'
// visit counters in the same transaction. Losing a race to another
// transition surfaces as not found, matching the zero-row guard.
func (s *service) Accept(ctx context.Context, req DecisionRequest) error {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "id must be a valid UUID")
	}
	companyID, userID, err := parseParties(req.CompanyID, req.UserID)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		rows, err := repo.AcceptPending(ctx, id, companyID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accept schedule")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pending schedule not found")
		}

		if err := repo.IncrementUserVisits(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit user visit")
		}
		if err := repo.IncrementCompanyVisits(ctx, companyID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit company visit")
		}
		return nil
	})
}

// Reject flips a pending schedule to rejected, recording the reason and
// rewriting the date as a counter-proposal.
func (s *service) Reject(ctx context.Context, req RejectRequest) error {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "id must be a valid UUID")
	}
	companyID, userID, err := parseParties(req.CompanyID, req.UserID)
	if err != nil {
		return err
	}
	reason := strings.TrimSpace(req.Reason)
	date := strings.TrimSpace(req.Date)
	if reason == "" || date == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason and date are required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repoFactory(tx).RejectPending(ctx, id, companyID, userID, reason, date)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject schedule")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pending schedule not found")
		}
		return nil
	})
}

func parseParties(companyID, userID string) (uuid.UUID, uuid.UUID, error) {
	company, err := uuid.Parse(strings.TrimSpace(companyID))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "company_id must be a valid UUID")
	}
	user, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid UUID")
	}
	return company, user, nil
}

func viewOf(schedule *models.Schedule) ScheduleView {
	return ScheduleView{
		ID:        schedule.ID,
		CompanyID: schedule.CompanyID,
		UserID:    schedule.UserID,
		Date:      schedule.Date,
		Time:      schedule.Time,
		Status:    schedule.Status,
		Reason:    schedule.Reason,
		CreatedAt: schedule.CreatedAt,
	}
}

func viewsOf(rows []models.Schedule) []ScheduleView {
	views := make([]ScheduleView, 0, len(rows))
	for i := range rows {
		views = append(views, viewOf(&rows[i]))
	}
	return views
}
