package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/geocode"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
)

// UpsertRequest is the payload for creating or updating a company profile.
type UpsertRequest struct {
	UserID        string          `json:"user_id" validate:"required,uuid"`
	CompanyName   string          `json:"company_name" validate:"required"`
	Location      string          `json:"location"`
	ContactNumber string          `json:"contact_number"`
	ProfileImage  string          `json:"profile_image"`
	BuildingImage string          `json:"building_image"`
	Price         decimal.Decimal `json:"price"`
}

// ProfileView is the company profile projection.
type ProfileView struct {
	UserID        uuid.UUID       `json:"user_id"`
	CompanyName   string          `json:"company_name"`
	Location      string          `json:"location"`
	ContactNumber string          `json:"contact_number"`
	ProfileImage  string          `json:"profile_image"`
	BuildingImage string          `json:"building_image"`
	Visits        int             `json:"visits"`
	Price         decimal.Decimal `json:"price"`
}

// PinView is the public map-pin projection of a company.
type PinView struct {
	CompanyName string   `json:"company_name"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// Service exposes the company operations used by the controllers.
type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*ProfileView, error)
	Display(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	Pin(ctx context.Context, userID uuid.UUID) (*PinView, error)
}

type companiesRepository interface {
	Upsert(ctx context.Context, profile *models.CompanyProfile) error
	Get(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
}

type geocoder interface {
	Resolve(ctx context.Context, address string) (*geocode.Coordinates, error)
}

// ServiceParams packages the dependencies for the companies service.
type ServiceParams struct {
	Repo     companiesRepository
	Geocoder geocoder
	Logger   *logger.Logger
}

type service struct {
	repo     companiesRepository
	geocoder geocoder
	logg     *logger.Logger
}

// NewService builds the companies service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies repository required")
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
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	profile := &models.CompanyProfile{
		UserID:        userID,
		CompanyName:   strings.TrimSpace(req.CompanyName),
		Location:      strings.TrimSpace(req.Location),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		ProfileImage:  strings.TrimSpace(req.ProfileImage),
		BuildingImage: strings.TrimSpace(req.BuildingImage),
		Price:         req.Price,
	}

	if s.geocoder != nil && profile.Location != "" {
		coords, err := s.geocoder.Resolve(ctx, profile.Location)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "location", profile.Location), "geocode.failed")
			}
		} else if coords != nil {
			profile.Lat = &coords.Latitude
			profile.Lng = &coords.Longitude
		}
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save company profile")
	}

	saved, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload company profile")
	}
	view := viewOf(saved)
	return &view, nil
}

func (s *service) Display(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := viewOf(profile)
	return &view, nil
}

func (s *service) Pin(ctx context.Context, userID uuid.UUID) (*PinView, error) {
	profile, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PinView{
		CompanyName: profile.CompanyName,
		Lat:         profile.Lat,
		Lng:         profile.Lng,
	}, nil
}

func (s *service) get(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company profile")
	}
	return profile, nil
}

func viewOf(profile *models.CompanyProfile) ProfileView {
	return ProfileView{
		UserID:        profile.UserID,
		CompanyName:   profile.CompanyName,
		Location:      profile.Location,
		ContactNumber: profile.ContactNumber,
		ProfileImage:  profile.ProfileImage,
		BuildingImage: profile.BuildingImage,
		Visits:        profile.Visits,
		Price:         profile.Price,
	}
}
