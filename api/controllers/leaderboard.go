package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/leaderboard"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// Leaderboard returns the top users ranked by points.
func Leaderboard(svc leaderboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "leaderboard service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Top(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, "leaderboard found", types.SuccessBody{
			"leaderboard": entries,
		})
	}
}
