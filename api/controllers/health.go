package controllers

import (
	"context"
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, http.StatusOK, "live", types.SuccessBody{
			"status": "live",
		})
	}
}

// HealthReady checks the database and cache before reporting ready.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				responses.WriteError(r.Context(), logg, w, wrapped)
				return
			}
		}

		responses.WriteSuccess(w, http.StatusOK, "ready", types.SuccessBody{
			"status": "ready",
		})
	}
}
