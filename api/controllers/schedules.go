package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/schedules"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// CreateSchedule requests a pickup from a company.
func CreateSchedule(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "schedules service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body schedules.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, "schedule created", types.SuccessBody{
			"schedule": view,
		})
	}
}

// DisplayUserSchedules lists schedules requested by a user.
func DisplayUserSchedules(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "schedules service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "schedules found", types.SuccessBody{
			"schedules": views,
		})
	}
}

// DisplayCompanySchedules lists schedules addressed to a company.
func DisplayCompanySchedules(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "schedules service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForCompany(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "schedules found", types.SuccessBody{
			"schedules": views,
		})
	}
}

// AcceptSchedule marks a pending schedule accepted and credits visit
// counters on both parties.
func AcceptSchedule(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "schedules service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body schedules.DecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Accept(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "schedule accepted", types.SuccessBody{
			"schedule_id": body.ID,
		})
	}
}

// RejectSchedule marks a pending schedule rejected with a counter-proposal.
func RejectSchedule(svc schedules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "schedules service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body schedules.RejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "schedule rejected", types.SuccessBody{
			"schedule_id": body.ID,
		})
	}
}
