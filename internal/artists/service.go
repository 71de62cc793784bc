package artists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/favatis/favatis-backend/internal/identity"
	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/ids"
	"github.com/favatis/favatis-backend/pkg/timeutil"
	"gorm.io/gorm"
)

const profileNotFoundMessage = "artist profile not found"

// Service defines artist lifecycle behavior used by the controllers.
type Service interface {
	Apply(ctx context.Context, req ApplicationRequest) (*ApplyResult, error)
	GetOwnProfile(ctx context.Context, userID string) (*ProfileDTO, error)
	UpdateOwnProfile(ctx context.Context, userID string, req ProfileUpdateRequest) (*ProfileDTO, error)
	Submit(ctx context.Context, userID string) error
	ListPublic(ctx context.Context) ([]ProfileDTO, error)
	Search(ctx context.Context, query string) ([]ProfileDTO, error)
	GetPublic(ctx context.Context, artistID string) (*ProfileDTO, error)
	ListPending(ctx context.Context) ([]ProfileDTO, error)
	Decide(ctx context.Context, artistID string, req DecisionRequest) (*DecisionResult, error)
}

type profileRepository interface {
	CreateProfile(ctx context.Context, profile *models.ArtistProfile) error
	FindByUserID(ctx context.Context, userID string) (*models.ArtistProfile, error)
	FindApprovedByID(ctx context.Context, artistID string) (*models.ArtistProfile, error)
	ListApproved(ctx context.Context) ([]models.ArtistProfile, error)
	SearchApproved(ctx context.Context, query string) ([]models.ArtistProfile, error)
	ListByStatus(ctx context.Context, status enums.ArtistStatus) ([]models.ArtistProfile, error)
	UpdateFields(ctx context.Context, userID string, updates map[string]any) (int64, error)
	MarkSubmitted(ctx context.Context, userID string, at time.Time) (int64, error)
	SetDecision(ctx context.Context, artistID string, status enums.ArtistStatus, approvedAt *time.Time) (int64, error)
}

type accountsRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, dto identity.CreateUserDTO) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
}

type service struct {
	profiles   profileRepository
	accounts   accountsRepository
	sessionCfg config.SessionConfig
}

// ServiceParams bundles the dependencies required to build an artists service.
type ServiceParams struct {
	ProfileRepo   profileRepository
	AccountsRepo  accountsRepository
	SessionConfig config.SessionConfig
}

// NewService constructs an artists service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.AccountsRepo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	return &service{
		profiles:   params.ProfileRepo,
		accounts:   params.AccountsRepo,
		sessionCfg: params.SessionConfig,
	}, nil
}

// Apply creates the artist's user account, a draft profile and an initial
// session in one step.
func (s *service) Apply(ctx context.Context, req ApplicationRequest) (*ApplyResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.accounts.FindUserByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	user, err := s.accounts.CreateUser(ctx, identity.CreateUserDTO{
		ID:    ids.New(ids.KindUser),
		Email: email,
		Name:  strings.TrimSpace(req.Name),
		Role:  enums.RoleArtist,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create artist user")
	}

	profile := &models.ArtistProfile{
		ID:          ids.New(ids.KindArtist),
		UserID:      user.ID,
		Name:        user.Name,
		SpotifyLink: req.SpotifyLink,
		Status:      enums.ArtistStatusDraft,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create artist profile")
	}

	now := timeutil.NormalizeUTC(time.Now())
	session := &models.Session{
		Token:     ids.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionCfg.TTL()),
	}
	if err := s.accounts.CreateSession(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	return &ApplyResult{
		Message:      "Artist application created",
		UserID:       user.ID,
		ArtistID:     profile.ID,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func (s *service) GetOwnProfile(ctx context.Context, userID string) (*ProfileDTO, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist profile")
	}
	return FromModel(profile), nil
}

func (s *service) UpdateOwnProfile(ctx context.Context, userID string, req ProfileUpdateRequest) (*ProfileDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	affected, err := s.profiles.UpdateFields(ctx, userID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update artist profile")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
	}

	return s.GetOwnProfile(ctx, userID)
}

// Submit moves the profile to pending review. Resubmitting is allowed in any
// state; it just refreshes submitted_at.
func (s *service) Submit(ctx context.Context, userID string) error {
	affected, err := s.profiles.MarkSubmitted(ctx, userID, timeutil.NormalizeUTC(time.Now()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "submit artist profile")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
	}
	return nil
}

func (s *service) ListPublic(ctx context.Context) ([]ProfileDTO, error) {
	profiles, err := s.profiles.ListApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list approved artists")
	}
	return fromModels(profiles), nil
}

func (s *service) Search(ctx context.Context, query string) ([]ProfileDTO, error) {
	profiles, err := s.profiles.SearchApproved(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search artists")
	}
	return fromModels(profiles), nil
}

func (s *service) GetPublic(ctx context.Context, artistID string) (*ProfileDTO, error) {
	profile, err := s.profiles.FindApprovedByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	return FromModel(profile), nil
}

func (s *service) ListPending(ctx context.Context) ([]ProfileDTO, error) {
	profiles, err := s.profiles.ListByStatus(ctx, enums.ArtistStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending applications")
	}
	return fromModels(profiles), nil
}

func (s *service) Decide(ctx context.Context, artistID string, req DecisionRequest) (*DecisionResult, error) {
	status := enums.ArtistStatusRejected
	var approvedAt *time.Time
	if req.Approved {
		status = enums.ArtistStatusApproved
		at := timeutil.NormalizeUTC(time.Now())
		approvedAt = &at
	}

	affected, err := s.profiles.SetDecision(ctx, artistID, status, approvedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record decision")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
	}

	return &DecisionResult{
		Message: fmt.Sprintf("Artist %s", status),
		Status:  status,
	}, nil
}
