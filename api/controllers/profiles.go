package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/profiles"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// UpsertProfile saves a user profile, geocoding its location server-side.
func UpsertProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profiles.UpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.Name = validators.SanitizeString(body.Name, 120)
		body.Bio = validators.SanitizeString(body.Bio, 500)

		view, err := svc.Upsert(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "profile saved", types.SuccessBody{
			"profile": view,
		})
	}
}

// DisplayProfile returns one user profile.
func DisplayProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable")
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

		responses.WriteSuccess(w, http.StatusOK, "profile found", types.SuccessBody{
			"profile": view,
		})
	}
}

// AllProfileLocations returns the geocoded map pins for every user profile.
func AllProfileLocations(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "profiles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.AllLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "locations found", types.SuccessBody{
			"locations": views,
		})
	}
}
