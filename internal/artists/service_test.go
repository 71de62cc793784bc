package artists

import (
	"context"
	"testing"
	"time"

	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubProfiles struct {
	byUserID map[string]*models.ArtistProfile
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{byUserID: map[string]*models.ArtistProfile{}}
}

func (s *stubProfiles) CreateProfile(_ context.Context, profile *models.ArtistProfile) error {
	profile.CreatedAt = time.Now().UTC()
	s.byUserID[profile.UserID] = profile
	return nil
}

func (s *stubProfiles) FindByUserID(_ context.Context, userID string) (*models.ArtistProfile, error) {
	if p, ok := s.byUserID[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfiles) FindApprovedByID(_ context.Context, artistID string) (*models.ArtistProfile, error) {
	for _, p := range s.byUserID {
		if p.ID == artistID && p.Status == enums.ArtistStatusApproved {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfiles) ListApproved(_ context.Context) ([]models.ArtistProfile, error) {
	return s.listByStatus(enums.ArtistStatusApproved), nil
}

func (s *stubProfiles) SearchApproved(_ context.Context, _ string) ([]models.ArtistProfile, error) {
	return s.listByStatus(enums.ArtistStatusApproved), nil
}

func (s *stubProfiles) ListByStatus(_ context.Context, status enums.ArtistStatus) ([]models.ArtistProfile, error) {
	return s.listByStatus(status), nil
}

func (s *stubProfiles) listByStatus(status enums.ArtistStatus) []models.ArtistProfile {
	var out []models.ArtistProfile
	for _, p := range s.byUserID {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out
}

func (s *stubProfiles) UpdateFields(_ context.Context, userID string, updates map[string]any) (int64, error) {
	p, ok := s.byUserID[userID]
	if !ok {
		return 0, nil
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if bio, ok := updates["bio"].(string); ok {
		p.Bio = &bio
	}
	if img, ok := updates["profile_image"].(string); ok {
		p.ProfileImage = &img
	}
	return 1, nil
}

func (s *stubProfiles) MarkSubmitted(_ context.Context, userID string, at time.Time) (int64, error) {
	p, ok := s.byUserID[userID]
	if !ok {
		return 0, nil
	}
	p.Status = enums.ArtistStatusPending
	p.SubmittedAt = &at
	return 1, nil
}

func (s *stubProfiles) SetDecision(_ context.Context, artistID string, status enums.ArtistStatus, approvedAt *time.Time) (int64, error) {
	for _, p := range s.byUserID {
		if p.ID == artistID {
			p.Status = status
			if approvedAt != nil {
				p.ApprovedAt = approvedAt
			}
			return 1, nil
		}
	}
	return 0, nil
}

type stubAccounts struct {
	usersByEmail map[string]*models.User
	sessions     map[string]*models.Session
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{
		usersByEmail: map[string]*models.User{},
		sessions:     map[string]*models.Session{},
	}
}

func (s *stubAccounts) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAccounts) CreateUser(_ context.Context, dto identity.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.usersByEmail[dto.Email] = user
	return user, nil
}

func (s *stubAccounts) CreateSession(_ context.Context, session *models.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func newTestService(t *testing.T, profiles *stubProfiles, accounts *stubAccounts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ProfileRepo:   profiles,
		AccountsRepo:  accounts,
		SessionConfig: config.SessionConfig{TTLDays: 7},
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestApplyCreatesAccountProfileAndSession(t *testing.T) {
	profiles := newStubProfiles()
	accounts := newStubAccounts()
	svc := newTestService(t, profiles, accounts)

	result, err := svc.Apply(context.Background(), ApplicationRequest{
		Email:       "Band@Example.com",
		Name:        "The Band",
		SpotifyLink: "https://open.spotify.com/artist/abc123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, ok := accounts.usersByEmail["band@example.com"]
	if !ok {
		t.Fatal("expected user created with normalized email")
	}
	if user.Role != enums.RoleArtist {
		t.Fatalf("expected artist role, got %q", user.Role)
	}

	profile, ok := profiles.byUserID[user.ID]
	if !ok {
		t.Fatal("expected profile created")
	}
	if profile.Status != enums.ArtistStatusDraft {
		t.Fatalf("expected draft status, got %q", profile.Status)
	}
	if profile.SubmittedAt != nil || profile.ApprovedAt != nil {
		t.Fatal("expected no review timestamps yet")
	}

	if _, ok := accounts.sessions[result.SessionToken]; !ok {
		t.Fatal("expected session persisted")
	}
	if result.ArtistID != profile.ID {
		t.Fatalf("expected artist id %q, got %q", profile.ID, result.ArtistID)
	}
}

func TestApplyDuplicateEmail(t *testing.T) {
	accounts := newStubAccounts()
	accounts.usersByEmail["band@example.com"] = &models.User{ID: "user_1", Email: "band@example.com"}
	svc := newTestService(t, newStubProfiles(), accounts)

	_, err := svc.Apply(context.Background(), ApplicationRequest{
		Email:       "band@example.com",
		Name:        "The Band",
		SpotifyLink: "https://open.spotify.com/artist/abc123",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateOwnProfileRequiresFields(t *testing.T) {
	svc := newTestService(t, newStubProfiles(), newStubAccounts())

	_, err := svc.UpdateOwnProfile(context.Background(), "user_1", ProfileUpdateRequest{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOwnProfileNotFound(t *testing.T) {
	svc := newTestService(t, newStubProfiles(), newStubAccounts())

	bio := "about"
	_, err := svc.UpdateOwnProfile(context.Background(), "user_missing", ProfileUpdateRequest{Bio: &bio})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitMovesProfileToPending(t *testing.T) {
	profiles := newStubProfiles()
	profiles.byUserID["user_1"] = &models.ArtistProfile{
		ID:     "artist_1",
		UserID: "user_1",
		Status: enums.ArtistStatusDraft,
	}
	svc := newTestService(t, profiles, newStubAccounts())

	if err := svc.Submit(context.Background(), "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := profiles.byUserID["user_1"]
	if profile.Status != enums.ArtistStatusPending {
		t.Fatalf("expected pending, got %q", profile.Status)
	}
	if profile.SubmittedAt == nil {
		t.Fatal("expected submitted_at set")
	}
}

func TestDecideApprove(t *testing.T) {
	profiles := newStubProfiles()
	profiles.byUserID["user_1"] = &models.ArtistProfile{
		ID:     "artist_1",
		UserID: "user_1",
		Status: enums.ArtistStatusPending,
	}
	svc := newTestService(t, profiles, newStubAccounts())

	result, err := svc.Decide(context.Background(), "artist_1", DecisionRequest{Approved: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != enums.ArtistStatusApproved {
		t.Fatalf("expected approved, got %q", result.Status)
	}

	profile := profiles.byUserID["user_1"]
	if profile.ApprovedAt == nil {
		t.Fatal("expected approved_at set")
	}
}

func TestDecideReject(t *testing.T) {
	profiles := newStubProfiles()
	profiles.byUserID["user_1"] = &models.ArtistProfile{
		ID:     "artist_1",
		UserID: "user_1",
		Status: enums.ArtistStatusPending,
	}
	svc := newTestService(t, profiles, newStubAccounts())

	result, err := svc.Decide(context.Background(), "artist_1", DecisionRequest{Approved: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != enums.ArtistStatusRejected {
		t.Fatalf("expected rejected, got %q", result.Status)
	}
	if profiles.byUserID["user_1"].ApprovedAt != nil {
		t.Fatal("expected approved_at untouched")
	}
}

func TestGetPublicHidesUnapproved(t *testing.T) {
	profiles := newStubProfiles()
	profiles.byUserID["user_1"] = &models.ArtistProfile{
		ID:     "artist_1",
		UserID: "user_1",
		Status: enums.ArtistStatusPending,
	}
	svc := newTestService(t, profiles, newStubAccounts())

	_, err := svc.GetPublic(context.Background(), "artist_1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
