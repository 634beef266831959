package quiz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
)

// SubmitRequest is the payload for recording a quiz result.
type SubmitRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Score  int    `json:"score" validate:"gte=0"`
}

// ScoreView is the projection of one recorded score event.
type ScoreView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitResult carries the event row and the profile's new points total.
type SubmitResult struct {
	Score       ScoreView
	TotalPoints int
}

// Service exposes the quiz operations used by the controllers.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

type quizRepository interface {
	InsertScore(ctx context.Context, score *models.QuizScore) error
	AddPoints(ctx context.Context, userID uuid.UUID, score int) (int64, error)
	TotalPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies for the quiz service.
type ServiceParams struct {
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) quizRepository
}

type service struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) quizRepository
}

// NewService builds the quiz service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) quizRepository {
			return NewRepository(tx)
		}
	}
	return &service{
		tx:          params.TxRunner,
		repoFactory: factory,
	}, nil
}

// Submit appends the score event and folds it into the profile total in
// one transaction: the event log is the source of record, the profile's
// points column is a running sum kept in lockstep.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid UUID")
	}
	if req.Score < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "score cannot be negative")
	}

	var result SubmitResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		rows, err := repo.AddPoints(ctx, userID, req.Score)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update points")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user profile not found")
		}

		score := &models.QuizScore{
			ID:     uuid.New(),
			UserID: userID,
			Score:  req.Score,
		}
		if err := repo.InsertScore(ctx, score); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record quiz score")
		}

		total, err := repo.TotalPoints(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read points total")
		}

		result = SubmitResult{
			Score: ScoreView{
				ID:        score.ID,
				UserID:    score.UserID,
				Score:     score.Score,
				CreatedAt: score.CreatedAt,
			},
			TotalPoints: total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
