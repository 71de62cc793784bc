package middleware

import (
	"net/http"

	"github.com/favatis/favatis-backend/api/responses"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
)

// RequireRole rejects any authenticated actor whose role does not match
// exactly. Admins get no implicit pass; routes open to several roles stack
// the check per route group instead.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if RoleFromContext(ctx) != role {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
