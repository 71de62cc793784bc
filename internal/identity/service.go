package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/ids"
	"github.com/favatis/favatis-backend/pkg/timeutil"
	"gorm.io/gorm"
)

const invalidSessionMessage = "invalid or expired session"

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	GoogleSession(ctx context.Context, brokerSessionID string) (*AuthResult, error)
	EmailSignup(ctx context.Context, req EmailSignupRequest) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*UserDTO, error)
	Logout(ctx context.Context, token string) error
	EnsureAdmin(ctx context.Context) error
}

type repository interface {
	CreateUser(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, name string, picture *string) error
	CreateSession(ctx context.Context, session *models.Session) error
	FindSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type service struct {
	repo       repository
	oauth      OAuthExchanger
	sessionCfg config.SessionConfig
	adminCfg   config.AdminConfig
}

// ServiceParams bundles the dependencies required to build an identity service.
type ServiceParams struct {
	Repo          repository
	OAuth         OAuthExchanger
	SessionConfig config.SessionConfig
	AdminConfig   config.AdminConfig
}

// NewService constructs an identity service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if params.OAuth == nil {
		return nil, fmt.Errorf("oauth exchanger is required")
	}
	return &service{
		repo:       params.Repo,
		oauth:      params.OAuth,
		sessionCfg: params.SessionConfig,
		adminCfg:   params.AdminConfig,
	}, nil
}

func (s *service) GoogleSession(ctx context.Context, brokerSessionID string) (*AuthResult, error) {
	if strings.TrimSpace(brokerSessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session id is required")
	}

	data, err := s.oauth.FetchSessionData(ctx, brokerSessionID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(data.Email)
	var picture *string
	if data.Picture != "" {
		picture = &data.Picture
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		// refresh profile details on every Google login
		if updateErr := s.repo.UpdateUserProfile(ctx, user.ID, data.Name, picture); updateErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, updateErr, "refresh user profile")
		}
		user.Name = data.Name
		user.Picture = picture
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.repo.CreateUser(ctx, CreateUserDTO{
			ID:      ids.New(ids.KindUser),
			Email:   email,
			Name:    data.Name,
			Picture: picture,
			Role:    enums.RoleFan,
		})
		if err != nil {
			// lost a concurrent signup race, re-read the winner
			if db.IsUniqueViolation(err, "") {
				user, err = s.repo.FindUserByEmail(ctx, email)
			}
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
			}
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	return s.openSession(ctx, user, s.sessionCfg.TTL())
}

func (s *service) EmailSignup(ctx context.Context, req EmailSignupRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	role := req.Role
	if role == "" {
		role = enums.RoleFan
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be fan, artist or admin")
	}

	user, err := s.repo.CreateUser(ctx, CreateUserDTO{
		ID:    ids.New(ids.KindUser),
		Email: email,
		Name:  strings.TrimSpace(req.Name),
		Role:  role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.openSession(ctx, user, s.sessionCfg.TTL())
}

func (s *service) Authenticate(ctx context.Context, token string) (*UserDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
	}

	session, err := s.repo.FindSession(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup session")
	}

	// Expired rows stay in place; expiry is only ever checked here.
	if !session.ExpiresAt.After(time.Now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
	}

	user, err := s.repo.FindUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup session user")
	}

	return FromModel(user), nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete session")
	}
	return nil
}

// EnsureAdmin seeds the platform admin account if it does not exist yet,
// together with a long-lived session for the dashboard.
func (s *service) EnsureAdmin(ctx context.Context) error {
	if !s.adminCfg.Seed {
		return nil
	}

	email := normalizeEmail(s.adminCfg.Email)
	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin user")
	}

	user, err := s.repo.CreateUser(ctx, CreateUserDTO{
		ID:    ids.New(ids.KindUser),
		Email: email,
		Name:  s.adminCfg.Name,
		Role:  enums.RoleAdmin,
	})
	if err != nil {
		// another instance won the seeding race
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed admin user")
	}

	if _, err := s.openSession(ctx, user, s.sessionCfg.AdminTTL()); err != nil {
		return err
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User, ttl time.Duration) (*AuthResult, error) {
	now := timeutil.NormalizeUTC(time.Now())
	session := &models.Session{
		Token:     ids.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	return &AuthResult{
		User:         *FromModel(user),
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
