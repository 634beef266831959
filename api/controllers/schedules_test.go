package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecosortapp/ecosort-backend/internal/schedules"
	"github.com/ecosortapp/ecosort-backend/pkg/enums"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubSchedulesService struct {
	view  *schedules.ScheduleView
	views []schedules.ScheduleView
	err   error
}

func (s *stubSchedulesService) Create(_ context.Context, _ schedules.CreateRequest) (*schedules.ScheduleView, error) {
	return s.view, s.err
}

func (s *stubSchedulesService) ListForUser(_ context.Context, _ uuid.UUID) ([]schedules.ScheduleView, error) {
	return s.views, s.err
}

func (s *stubSchedulesService) ListForCompany(_ context.Context, _ uuid.UUID) ([]schedules.ScheduleView, error) {
	return s.views, s.err
}

func (s *stubSchedulesService) Accept(_ context.Context, _ schedules.DecisionRequest) error {
	return s.err
}

func (s *stubSchedulesService) Reject(_ context.Context, _ schedules.RejectRequest) error {
	return s.err
}

func TestCreateScheduleSuccess(t *testing.T) {
	view := &schedules.ScheduleView{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Date:      "2026-03-01",
		Time:      "09:00",
		Status:    enums.ScheduleStatusPending,
	}
	svc := &stubSchedulesService{view: view}
	handler := CreateSchedule(svc, nil)

	body, _ := json.Marshal(map[string]string{
		"company_id": view.CompanyID.String(),
		"user_id":    view.UserID.String(),
		"date":       "2026-03-01",
		"time":       "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/companySchedule", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		Schedule schedules.ScheduleView `json:"schedule"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Schedule.Status != enums.ScheduleStatusPending {
		t.Fatalf("expected pending status got %s", envelope.Schedule.Status)
	}
}

func TestDisplayUserSchedulesRequiresUserID(t *testing.T) {
	handler := DisplayUserSchedules(&stubSchedulesService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/displayuserSchedule", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestDisplayCompanySchedules(t *testing.T) {
	svc := &stubSchedulesService{views: []schedules.ScheduleView{
		{ID: uuid.New(), Status: enums.ScheduleStatusPending},
		{ID: uuid.New(), Status: enums.ScheduleStatusAccepted},
	}}
	handler := DisplayCompanySchedules(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/displayCompanySchedule?user_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Schedules []schedules.ScheduleView `json:"schedules"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Schedules) != 2 {
		t.Fatalf("expected 2 schedules got %d", len(envelope.Schedules))
	}
}

func TestAcceptScheduleNotPending(t *testing.T) {
	svc := &stubSchedulesService{err: pkgerrors.New(pkgerrors.CodeNotFound, "pending schedule not found")}
	handler := AcceptSchedule(svc, nil)

	body, _ := json.Marshal(map[string]string{
		"id":         uuid.NewString(),
		"company_id": uuid.NewString(),
		"user_id":    uuid.NewString(),
	})
	req := httptest.NewRequest(http.MethodPost, "/acceptSchedule", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestRejectScheduleSuccess(t *testing.T) {
	svc := &stubSchedulesService{}
	handler := RejectSchedule(svc, nil)

	scheduleID := uuid.NewString()
	body, _ := json.Marshal(map[string]string{
		"id":         scheduleID,
		"company_id": uuid.NewString(),
		"user_id":    uuid.NewString(),
		"reason":     "truck unavailable",
		"date":       "2026-03-08",
	})
	req := httptest.NewRequest(http.MethodPost, "/rejectSchedule", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		ScheduleID string `json:"schedule_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.ScheduleID != scheduleID {
		t.Fatalf("expected schedule id %s got %s", scheduleID, envelope.ScheduleID)
	}
}
