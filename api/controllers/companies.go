package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/companies"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// UpsertCompanyProfile saves a company profile.
func UpsertCompanyProfile(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "companies service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body companies.UpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.CompanyName = validators.SanitizeString(body.CompanyName, 120)

		view, err := svc.Upsert(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "company profile saved", types.SuccessBody{
			"profile": view,
		})
	}
}

// DisplayCompanyProfile returns one company profile.
func DisplayCompanyProfile(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "companies service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Display(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "company profile found", types.SuccessBody{
			"profile": view,
		})
	}
}

// DisplayCompanyPin returns the public map pin for one company.
func DisplayCompanyPin(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "companies service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pin, err := svc.Pin(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "company found", types.SuccessBody{
			"company": pin,
		})
	}
}
