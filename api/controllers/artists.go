package controllers

import (
	"net/http"
	"strings"

	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/api/validators"
	"github.com/favatis/favatis-backend/internal/artists"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ArtistApply onboards a new artist with a draft profile. The session token
// is returned in the body; the artist dashboard stores it itself.
func ArtistApply(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		var body artists.ApplicationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Apply(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ArtistProfileGet returns the caller's own profile in any review state.
func ArtistProfileGet(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		profile, err := svc.GetOwnProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ArtistProfileUpdate applies partial edits to the caller's profile.
func ArtistProfileUpdate(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		var body artists.ProfileUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateOwnProfile(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ArtistSubmit moves the caller's profile into review.
func ArtistSubmit(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		if err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Application submitted for review"})
	}
}

// ArtistsPublicList returns every approved artist.
func ArtistsPublicList(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		profiles, err := svc.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profiles)
	}
}

// ArtistsSearch matches approved artists by name substring.
func ArtistsSearch(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		profiles, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profiles)
	}
}

// ArtistPublicGet returns a single approved artist page.
func ArtistPublicGet(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artists service unavailable"))
			return
		}

		profile, err := svc.GetPublic(r.Context(), chi.URLParam(r, "artist_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
