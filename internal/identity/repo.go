package identity

import (
	"context"

	"github.com/favatis/favatis-backend/internal/repo"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user and session persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an identity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateUser inserts a new user and returns the persisted model.
func (r *Repository) CreateUser(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByEmail retrieves the user matching the provided email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID loads a user by their identifier.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile refreshes the display name and picture for a user.
func (r *Repository) UpdateUserProfile(ctx context.Context, id, name string, picture *string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "picture": picture}).Error
}

// CountUsersByRole counts users holding the given role.
func (r *Repository) CountUsersByRole(ctx context.Context, role enums.Role) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// CreateSession persists a session row for the user.
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	return r.DB(ctx).Create(session).Error
}

// FindSession loads a session by its token.
func (r *Repository) FindSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.DB(ctx).First(&session, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session by token. Deleting a missing session is
// not an error.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	return r.DB(ctx).Delete(&models.Session{}, "token = ?", token).Error
}
