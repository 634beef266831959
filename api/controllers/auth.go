package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/accounts"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// Signup handles account creation.
func Signup(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accounts.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Signup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, "account created", types.SuccessBody{
			"user": view,
		})
	}
}

// Login verifies credentials and refreshes the activity timestamp.
func Login(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accounts.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "login successful", types.SuccessBody{
			"user":       result.Account,
			"last_login": result.LastLogin,
		})
	}
}
