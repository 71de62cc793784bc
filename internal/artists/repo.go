package artists

import (
	"context"
	"strings"
	"time"

	"github.com/favatis/favatis-backend/internal/repo"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	"gorm.io/gorm"
)

const (
	publicListLimit = 1000
	searchLimit     = 100
	pendingLimit    = 100
)

// Repository exposes artist profile persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an artists repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateProfile inserts a new artist profile.
func (r *Repository) CreateProfile(ctx context.Context, profile *models.ArtistProfile) error {
	return r.DB(ctx).Create(profile).Error
}

// FindByUserID loads the profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.ArtistProfile, error) {
	var profile models.ArtistProfile
	if err := r.DB(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindApprovedByID loads an approved profile by artist id.
func (r *Repository) FindApprovedByID(ctx context.Context, artistID string) (*models.ArtistProfile, error) {
	var profile models.ArtistProfile
	err := r.DB(ctx).
		Where("id = ? AND status = ?", artistID, enums.ArtistStatusApproved).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListApproved returns the public roster of approved artists.
func (r *Repository) ListApproved(ctx context.Context) ([]models.ArtistProfile, error) {
	var profiles []models.ArtistProfile
	err := r.DB(ctx).
		Where("status = ?", enums.ArtistStatusApproved).
		Limit(publicListLimit).
		Find(&profiles).Error
	return profiles, err
}

// SearchApproved finds approved artists whose name matches the query,
// case-insensitively.
func (r *Repository) SearchApproved(ctx context.Context, query string) ([]models.ArtistProfile, error) {
	var profiles []models.ArtistProfile
	err := r.DB(ctx).
		Where("status = ?", enums.ArtistStatusApproved).
		Where("LOWER(name) LIKE ?", "%"+escapeLike(query)+"%").
		Limit(searchLimit).
		Find(&profiles).Error
	return profiles, err
}

// ListByStatus returns profiles in the given lifecycle state.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ArtistStatus) ([]models.ArtistProfile, error) {
	var profiles []models.ArtistProfile
	err := r.DB(ctx).
		Where("status = ?", status).
		Limit(pendingLimit).
		Find(&profiles).Error
	return profiles, err
}

// UpdateFields applies a partial update keyed by the owning user.
func (r *Repository) UpdateFields(ctx context.Context, userID string, updates map[string]any) (int64, error) {
	res := r.DB(ctx).
		Model(&models.ArtistProfile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// MarkSubmitted moves the profile to pending review.
func (r *Repository) MarkSubmitted(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.ArtistProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"status":       enums.ArtistStatusPending,
			"submitted_at": at,
		})
	return res.RowsAffected, res.Error
}

// SetDecision records the admin verdict on a profile.
func (r *Repository) SetDecision(ctx context.Context, artistID string, status enums.ArtistStatus, approvedAt *time.Time) (int64, error) {
	updates := map[string]any{"status": status}
	if approvedAt != nil {
		updates["approved_at"] = *approvedAt
	}
	res := r.DB(ctx).
		Model(&models.ArtistProfile{}).
		Where("id = ?", artistID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// CountByStatus counts profiles in the given state.
func (r *Repository) CountByStatus(ctx context.Context, status enums.ArtistStatus) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.ArtistProfile{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
