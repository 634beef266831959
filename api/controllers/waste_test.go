package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecosortapp/ecosort-backend/internal/waste"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
	"github.com/google/uuid"
)

type stubWasteService struct {
	result *waste.UploadResult
	err    error
}

func (s *stubWasteService) Upload(_ context.Context, _ waste.UploadRequest) (*waste.UploadResult, error) {
	return s.result, s.err
}

func wasteUploadBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"user_id":    uuid.NewString(),
		"level":      2,
		"front_view": "https://img.example.com/front.jpg",
		"top_views":  []string{"https://img.example.com/top1.jpg"},
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return body
}

func TestUploadWasteSuccess(t *testing.T) {
	imageID := uuid.New()
	svc := &stubWasteService{result: &waste.UploadResult{
		ImageID: imageID,
		Results: []waste.BinResult{{Image: "https://img.example.com/top1.jpg", Labels: []string{"plastic"}}},
	}}
	handler := UploadWaste(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/wasteUpload", bytes.NewReader(wasteUploadBody(t)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		ImageID uuid.UUID         `json:"image_id"`
		Results []waste.BinResult `json:"classification_results"`
		Message string            `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.ImageID != imageID {
		t.Fatalf("expected image id %s got %s", imageID, envelope.ImageID)
	}
	if len(envelope.Results) != 1 || envelope.Results[0].Labels[0] != "plastic" {
		t.Fatalf("unexpected results %+v", envelope.Results)
	}
}

func TestUploadWasteRejectionCarriesDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "detected bin count does not match top views").
		WithDetails(map[string]int{"detected_bins": 2, "top_views": 1})
	svc := &stubWasteService{err: err}
	handler := UploadWaste(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/wasteUpload", bytes.NewReader(wasteUploadBody(t)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	details, ok := envelope.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details map got %T", envelope.Details)
	}
	if details["detected_bins"] != float64(2) {
		t.Fatalf("expected detected_bins 2 got %v", details["detected_bins"])
	}
}

func TestUploadWasteVisionOutage(t *testing.T) {
	svc := &stubWasteService{err: pkgerrors.New(pkgerrors.CodeDependency, "bin counter unavailable")}
	handler := UploadWaste(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/wasteUpload", bytes.NewReader(wasteUploadBody(t)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
