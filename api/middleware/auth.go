package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/pkg/config"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
)

// Authenticator resolves a session token to the user who owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.UserDTO, error)
}

// Auth resolves the session token and seeds the request context with the
// authenticated user. The cookie takes precedence over the Authorization
// header so browser sessions survive stale bearer tokens in SPA state.
func Auth(cfg config.SessionConfig, authenticator Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cfg.CookieName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, user.ID)
			ctx = context.WithValue(ctx, ctxRole, string(user.Role))

			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
				ctx = logg.WithActorRole(ctx, string(user.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken extracts the session token from the cookie or, failing that,
// the Authorization header.
func SessionToken(r *http.Request, cookieName string) string {
	if cookieName == "" {
		cookieName = "session_token"
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token
		}
	}

	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
