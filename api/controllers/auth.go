package controllers

import (
	"net/http"
	"strings"

	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/api/validators"
	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/pkg/config"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
)

// AuthGoogleSession exchanges a broker session id for a local session. The
// id arrives in the X-Session-ID header following the OAuth redirect.
func AuthGoogleSession(svc identity.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id required"))
			return
		}

		result, err := svc.GoogleSession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.SessionToken, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// AuthEmailSignup creates a fan or artist account from an email and name.
func AuthEmailSignup(svc identity.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body identity.EmailSignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EmailSignup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.SessionToken, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// AuthMe returns the authenticated user.
func AuthMe(svc identity.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		token := middleware.SessionToken(r, cfg.CookieName)
		user, err := svc.Authenticate(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AuthLogout deletes the server-side session and clears the cookie.
func AuthLogout(svc identity.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		token := middleware.SessionToken(r, cfg.CookieName)
		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}
