package controllers

import (
	"net/http"

	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/api/validators"
	"github.com/favatis/favatis-backend/internal/analytics"
	"github.com/favatis/favatis-backend/internal/artists"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminApplications lists pending artist applications.
func AdminApplications(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		profiles, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profiles)
	}
}

// AdminDecide approves or rejects a pending application.
func AdminDecide(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		var body artists.DecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Decide(r.Context(), chi.URLParam(r, "artist_id"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminAnalytics returns the platform dashboard counts.
func AdminAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
