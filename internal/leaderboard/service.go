package leaderboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/ecosortapp/ecosort-backend/pkg/config"
	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
)

const defaultLimit = 20

// EntryView is one ranked row of the leaderboard.
type EntryView struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Points       int       `json:"points"`
	Level        int       `json:"level"`
	ProfileImage string    `json:"profile_image"`
}

// Service exposes the leaderboard read operation.
type Service interface {
	Top(ctx context.Context, limit int) ([]EntryView, error)
}

type leaderboardRepository interface {
	TopByPoints(ctx context.Context, limit int) ([]models.UserProfile, error)
}

// ServiceParams packages the dependencies for the leaderboard service.
type ServiceParams struct {
	Repo   leaderboardRepository
	Config config.LeaderboardConfig
}

type service struct {
	repo        leaderboardRepository
	limit       int
	placeholder string
}

// NewService builds the leaderboard service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "leaderboard repository required")
	}
	limit := params.Config.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &service{
		repo:        params.Repo,
		limit:       limit,
		placeholder: params.Config.PlaceholderImage,
	}, nil
}

// Top returns the ranked profiles. A caller-supplied limit is honored
// only below the configured ceiling. Profiles without an image get the
// configured placeholder in the response only; nothing is written back.
func (s *service) Top(ctx context.Context, limit int) ([]EntryView, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	rows, err := s.repo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load leaderboard")
	}

	views := make([]EntryView, 0, len(rows))
	for _, row := range rows {
		image := row.ProfileImage
		if image == "" {
			image = s.placeholder
		}
		views = append(views, EntryView{
			UserID:       row.UserID,
			Name:         row.Name,
			Points:       row.Points,
			Level:        row.Level,
			ProfileImage: image,
		})
	}
	return views, nil
}
