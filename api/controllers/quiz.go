package controllers

import (
	"net/http"

	"github.com/ecosortapp/ecosort-backend/api/responses"
	"github.com/ecosortapp/ecosort-backend/api/validators"
	"github.com/ecosortapp/ecosort-backend/internal/quiz"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/types"
)

// SubmitQuizScore records a quiz result and credits the user's points.
func SubmitQuizScore(svc quiz.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "quiz service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quiz.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, "quiz score recorded", types.SuccessBody{
			"quiz_score":   result.Score,
			"total_points": result.TotalPoints,
		})
	}
}
