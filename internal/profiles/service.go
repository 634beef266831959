package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/geocode"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
)

// UpsertRequest is the payload for creating or updating a profile.
// Coordinates are derived from the location string on the server; the
// client cannot supply them.
type UpsertRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	Age          int    `json:"age" validate:"gte=0,lte=150"`
	ProfileImage string `json:"profile_image"`
}

// ProfileView is the full profile projection returned after an upsert.
type ProfileView struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Age          int       `json:"age"`
	ProfileImage string    `json:"profile_image"`
	Level        int       `json:"level"`
	Points       int       `json:"points"`
	Visits       int       `json:"visits"`
	Streaks      int       `json:"streaks"`
	WasteGrams   int       `json:"waste_grams"`
}

// LocationView is the map-pin projection used by the all-locations listing.
type LocationView struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Bio    string    `json:"bio"`
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
}

// Service exposes the profile operations used by the controllers.
type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*ProfileView, error)
	Display(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	AllLocations(ctx context.Context) ([]LocationView, error)
}

type profilesRepository interface {
	Upsert(ctx context.Context, profile *models.UserProfile) error
	Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	AllWithCoordinates(ctx context.Context) ([]models.UserProfile, error)
}

type geocoder interface {
	Resolve(ctx context.Context, address string) (*geocode.Coordinates, error)
}

// ServiceParams packages the dependencies for the profiles service.
type ServiceParams struct {
	Repo     profilesRepository
	Geocoder geocoder
	Logger   *logger.Logger
}

type service struct {
	repo     profilesRepository
	geocoder geocoder
	logg     *logger.Logger
}

// NewService builds the profiles service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles repository required")
	}
	return &service{
		repo:     params.Repo,
		geocoder: params.Geocoder,
		logg:     params.Logger,
	}, nil
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*ProfileView, error) {
	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid UUID")
	}

	profile := &models.UserProfile{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Bio:          strings.TrimSpace(req.Bio),
		Location:     strings.TrimSpace(req.Location),
		Age:          req.Age,
		ProfileImage: strings.TrimSpace(req.ProfileImage),
	}

	if lat, lng, ok := s.locate(ctx, profile.Location); ok {
		profile.Lat = &lat
		profile.Lng = &lng
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
	}

	saved, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload profile")
	}
	view := viewOf(saved)
	return &view, nil
}

func (s *service) Display(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	view := viewOf(profile)
	return &view, nil
}

func (s *service) AllLocations(ctx context.Context) ([]LocationView, error) {
	rows, err := s.repo.AllWithCoordinates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list profile locations")
	}

	views := make([]LocationView, 0, len(rows))
	for _, row := range rows {
		if row.Lat == nil || row.Lng == nil {
			continue
		}
		views = append(views, LocationView{
			UserID: row.UserID,
			Name:   row.Name,
			Bio:    row.Bio,
			Lat:    *row.Lat,
			Lng:    *row.Lng,
		})
	}
	return views, nil
}

// locate geocodes a free-text location. A miss or an upstream failure
// leaves the profile without coordinates rather than failing the save.
func (s *service) locate(ctx context.Context, location string) (float64, float64, bool) {
	if location == "" || s.geocoder == nil {
		return 0, 0, false
	}
	coords, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "location", location), "geocode.failed")
		}
		return 0, 0, false
	}
	if coords == nil {
		return 0, 0, false
	}
	return coords.Latitude, coords.Longitude, true
}

func viewOf(profile *models.UserProfile) ProfileView {
	return ProfileView{
		UserID:       profile.UserID,
		Name:         profile.Name,
		Bio:          profile.Bio,
		Location:     profile.Location,
		Age:          profile.Age,
		ProfileImage: profile.ProfileImage,
		Level:        profile.Level,
		Points:       profile.Points,
		Visits:       profile.Visits,
		Streaks:      profile.Streaks,
		WasteGrams:   profile.WasteGrams,
	}
}
