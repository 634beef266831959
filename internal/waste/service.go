package waste

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
)

const maxTopViews = 3

// UploadRequest is the payload for a waste-sorting submission: one
// front-view photo of the bins plus one top-view photo per bin.
type UploadRequest struct {
	UserID    string   `json:"user_id" validate:"required,uuid"`
	Level     int      `json:"level" validate:"gte=0"`
	FrontView string   `json:"front_view" validate:"required"`
	TopViews  []string `json:"top_views" validate:"required,min=1,max=3,dive,required"`
}

// BinResult is the classification outcome for one top-view image.
type BinResult struct {
	Image  string   `json:"image"`
	Labels []string `json:"labels"`
}

// UploadResult carries the persisted row ID and the per-bin results.
type UploadResult struct {
	ImageID uuid.UUID
	Results []BinResult
}

// Service exposes the waste-upload operation used by the controller.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

type binCounter interface {
	Count(ctx context.Context, imageURL string) (int, error)
}

type classifier interface {
	Classify(ctx context.Context, imageURL string) ([]string, error)
}

type wasteRepository interface {
	Insert(ctx context.Context, image *models.WasteImage) error
}

// ServiceParams packages the dependencies for the waste service.
type ServiceParams struct {
	Repo       wasteRepository
	BinCounter binCounter
	Classifier classifier
}

type service struct {
	repo       wasteRepository
	binCounter binCounter
	classifier classifier
}

// NewService builds the waste service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "waste repository required")
	}
	if params.BinCounter == nil || params.Classifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inference adapters required")
	}
	return &service{
		repo:       params.Repo,
		binCounter: params.BinCounter,
		classifier: params.Classifier,
	}, nil
}

// Upload validates a submission end to end and persists it only when
// every check passes. The front view establishes how many bins exist;
// each top view is classified into a label set; a bin with more than one
// label is improperly sorted, and two bins sharing a label set mean the
// same waste category was split across bins. Purity is checked before
// uniqueness so the caller sees the more actionable rejection first.
func (s *service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid UUID")
	}
	frontView := strings.TrimSpace(req.FrontView)
	if frontView == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "front_view is required")
	}
	if len(req.TopViews) == 0 || len(req.TopViews) > maxTopViews {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "between 1 and 3 top views are required")
	}
	topViews := make([]string, 0, len(req.TopViews))
	for _, view := range req.TopViews {
		trimmed := strings.TrimSpace(view)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "top view image references cannot be empty")
		}
		topViews = append(topViews, trimmed)
	}

	detected, err := s.binCounter.Count(ctx, frontView)
	if err != nil {
		return nil, err
	}
	if detected != len(topViews) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "detected bin count does not match submitted top views").
			WithDetails(map[string]int{
				"detected_bins": detected,
				"top_views":     len(topViews),
			})
	}

	results := make([]BinResult, 0, len(topViews))
	for _, view := range topViews {
		labels, err := s.classifier.Classify(ctx, view)
		if err != nil {
			return nil, err
		}
		results = append(results, BinResult{Image: view, Labels: labels})
	}

	for _, result := range results {
		if len(result.Labels) > 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a bin contains more than one waste category").
				WithDetails(map[string]any{"results": results})
		}
	}

	seen := map[string]struct{}{}
	for _, result := range results {
		key := strings.Join(result.Labels, ",")
		if _, ok := seen[key]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "two bins contain the same waste category").
				WithDetails(map[string]any{"results": results})
		}
		seen[key] = struct{}{}
	}

	image := &models.WasteImage{
		ID:     uuid.New(),
		UserID: userID,
		Level:  req.Level,
		Image:  strings.Join(append([]string{frontView}, topViews...), ","),
	}
	if err := s.repo.Insert(ctx, image); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist waste upload")
	}

	return &UploadResult{
		ImageID: image.ID,
		Results: results,
	}, nil
}
