package subscriptions

import (
	"context"

	"github.com/favatis/favatis-backend/internal/repo"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	"gorm.io/gorm"
)

const listLimit = 100

// Repository exposes subscription persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a subscriptions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindActive loads the fan's active subscription to the given artist.
func (r *Repository) FindActive(ctx context.Context, fanUserID, artistID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.DB(ctx).
		Where("fan_user_id = ? AND artist_id = ? AND status = ?",
			fanUserID, artistID, enums.SubscriptionStatusActive).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByFan returns all subscriptions held by a fan.
func (r *Repository) ListByFan(ctx context.Context, fanUserID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.DB(ctx).
		Where("fan_user_id = ?", fanUserID).
		Limit(listLimit).
		Find(&subs).Error
	return subs, err
}

// CountByStatus counts subscriptions in the given state.
func (r *Repository) CountByStatus(ctx context.Context, status enums.SubscriptionStatus) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
