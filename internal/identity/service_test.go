package identity

import (
	"context"
	"testing"
	"time"

	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubRepo struct {
	usersByEmail map[string]*models.User
	sessions     map[string]*models.Session
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		usersByEmail: map[string]*models.User{},
		sessions:     map[string]*models.Session{},
	}
}

func (r *stubRepo) CreateUser(_ context.Context, dto CreateUserDTO) (*models.User, error) {
	if _, ok := r.usersByEmail[dto.Email]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.CreatedAt = time.Now().UTC()
	r.usersByEmail[dto.Email] = user
	return user, nil
}

func (r *stubRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := r.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) FindUserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range r.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) UpdateUserProfile(_ context.Context, id, name string, picture *string) error {
	for _, user := range r.usersByEmail {
		if user.ID == id {
			user.Name = name
			user.Picture = picture
		}
	}
	return nil
}

func (r *stubRepo) CreateSession(_ context.Context, session *models.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *stubRepo) FindSession(_ context.Context, token string) (*models.Session, error) {
	if session, ok := r.sessions[token]; ok {
		return session, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) DeleteSession(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type stubOAuth struct {
	data *OAuthSessionData
	err  error
}

func (s *stubOAuth) FetchSessionData(context.Context, string) (*OAuthSessionData, error) {
	return s.data, s.err
}

func newTestService(t *testing.T, repo *stubRepo, oauth OAuthExchanger) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:          repo,
		OAuth:         oauth,
		SessionConfig: config.SessionConfig{CookieName: "session_token", TTLDays: 7, AdminTTLDays: 365},
		AdminConfig:   config.AdminConfig{Seed: true, Email: "admin@favatis.com", Name: "Admin"},
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestGoogleSessionCreatesFan(t *testing.T) {
	repo := newStubRepo()
	oauth := &stubOAuth{data: &OAuthSessionData{Email: "Fan@Example.com", Name: "Fan One", Picture: "https://img"}}
	svc := newTestService(t, repo, oauth)

	result, err := svc.GoogleSession(context.Background(), "broker-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Email != "fan@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Role != enums.RoleFan {
		t.Fatalf("expected fan role, got %q", result.User.Role)
	}
	if _, ok := repo.sessions[result.SessionToken]; !ok {
		t.Fatal("expected session persisted")
	}
	if !result.ExpiresAt.After(time.Now().UTC().Add(6 * 24 * time.Hour)) {
		t.Fatalf("expected ~7 day expiry, got %v", result.ExpiresAt)
	}
}

func TestGoogleSessionExistingUserKeepsRole(t *testing.T) {
	repo := newStubRepo()
	repo.usersByEmail["artist@example.com"] = &models.User{
		ID:    "user_abc123abc123",
		Email: "artist@example.com",
		Name:  "Artist",
		Role:  enums.RoleArtist,
	}
	oauth := &stubOAuth{data: &OAuthSessionData{Email: "artist@example.com", Name: "Artist Renamed"}}
	svc := newTestService(t, repo, oauth)

	result, err := svc.GoogleSession(context.Background(), "broker-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Role != enums.RoleArtist {
		t.Fatalf("expected artist role preserved, got %q", result.User.Role)
	}
	if result.User.Name != "Artist Renamed" {
		t.Fatalf("expected refreshed name, got %q", result.User.Name)
	}
	if len(repo.usersByEmail) != 1 {
		t.Fatalf("expected no duplicate user, got %d", len(repo.usersByEmail))
	}
}

func TestGoogleSessionRequiresSessionID(t *testing.T) {
	svc := newTestService(t, newStubRepo(), &stubOAuth{})
	_, err := svc.GoogleSession(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestEmailSignupDuplicate(t *testing.T) {
	repo := newStubRepo()
	repo.usersByEmail["fan@example.com"] = &models.User{ID: "user_1", Email: "fan@example.com"}
	svc := newTestService(t, repo, &stubOAuth{})

	_, err := svc.EmailSignup(context.Background(), EmailSignupRequest{Email: "FAN@example.com", Name: "Fan", Role: enums.RoleFan})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubOAuth{})

	result, err := svc.EmailSignup(context.Background(), EmailSignupRequest{Email: "fan@example.com", Name: "Fan", Role: enums.RoleFan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), result.SessionToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("expected user %q, got %q", result.User.ID, user.ID)
	}
}

func TestAuthenticateExpiredSessionRejectedButKept(t *testing.T) {
	repo := newStubRepo()
	repo.usersByEmail["fan@example.com"] = &models.User{ID: "user_1", Email: "fan@example.com", Role: enums.RoleFan}
	repo.sessions["session_expired"] = &models.Session{
		Token:     "session_expired",
		UserID:    "user_1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := newTestService(t, repo, &stubOAuth{})

	_, err := svc.Authenticate(context.Background(), "session_expired")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	// authentication is a pure read path; the expired row stays until logout
	if _, ok := repo.sessions["session_expired"]; !ok {
		t.Fatal("expected expired session row untouched")
	}
}

func TestAuthenticateSessionForMissingUser(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["session_orphan"] = &models.Session{
		Token:     "session_orphan",
		UserID:    "user_gone",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	svc := newTestService(t, repo, &stubOAuth{})

	_, err := svc.Authenticate(context.Background(), "session_orphan")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	svc := newTestService(t, newStubRepo(), &stubOAuth{})
	if err := svc.Logout(context.Background(), "session_missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubOAuth{})

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	admin, ok := repo.usersByEmail["admin@favatis.com"]
	if !ok {
		t.Fatal("expected admin seeded")
	}
	if admin.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.usersByEmail) != 1 {
		t.Fatalf("expected a single admin, got %d users", len(repo.usersByEmail))
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected one seeded session, got %d", len(repo.sessions))
	}
}

func TestEnsureAdminOpensLongLivedSession(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubOAuth{})

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	admin := repo.usersByEmail["admin@favatis.com"]
	if admin == nil {
		t.Fatal("expected admin seeded")
	}

	var session *models.Session
	for _, s := range repo.sessions {
		session = s
	}
	if session == nil {
		t.Fatal("expected admin session created")
	}
	if session.UserID != admin.ID {
		t.Fatalf("expected session for %q, got %q", admin.ID, session.UserID)
	}
	if !session.ExpiresAt.After(time.Now().UTC().Add(364 * 24 * time.Hour)) {
		t.Fatalf("expected ~365 day expiry, got %v", session.ExpiresAt)
	}
}
