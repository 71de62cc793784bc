package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
)

type stubAuthenticator struct {
	users map[string]*identity.UserDTO
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*identity.UserDTO, error) {
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
}

func newAuthHandler(auth *stubAuthenticator, capture *map[string]string) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	mw := Auth(config.SessionConfig{CookieName: "session_token"}, auth, logg)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = map[string]string{
			"user_id": UserIDFromContext(r.Context()),
			"role":    RoleFromContext(r.Context()),
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	var seen map[string]string
	handler := newAuthHandler(&stubAuthenticator{}, &seen)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatal("handler should not run without credentials")
	}
}

func TestAuthAcceptsSessionCookie(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*identity.UserDTO{
		"session_abc": {ID: "user_1", Role: enums.RoleFan},
	}}
	var seen map[string]string
	handler := newAuthHandler(auth, &seen)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "session_abc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen["user_id"] != "user_1" || seen["role"] != "fan" {
		t.Fatalf("unexpected context %v", seen)
	}
}

func TestAuthFallsBackToBearerHeader(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*identity.UserDTO{
		"session_abc": {ID: "user_2", Role: enums.RoleArtist},
	}}
	var seen map[string]string
	handler := newAuthHandler(auth, &seen)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer session_abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen["user_id"] != "user_2" {
		t.Fatalf("unexpected context %v", seen)
	}
}

func TestAuthPrefersCookieOverHeader(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*identity.UserDTO{
		"session_cookie": {ID: "user_cookie", Role: enums.RoleFan},
		"session_header": {ID: "user_header", Role: enums.RoleFan},
	}}
	var seen map[string]string
	handler := newAuthHandler(auth, &seen)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "session_cookie"})
	req.Header.Set("Authorization", "Bearer session_header")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen["user_id"] != "user_cookie" {
		t.Fatalf("expected cookie session to win, got %v", seen)
	}
}

func TestAuthRejectsExpiredSession(t *testing.T) {
	var seen map[string]string
	handler := newAuthHandler(&stubAuthenticator{}, &seen)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "session_stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	handler := RequireRole("admin", logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	req = req.WithContext(WithRole(req.Context(), "fan"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
