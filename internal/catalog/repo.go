package catalog

import (
	"context"

	"github.com/favatis/favatis-backend/internal/repo"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"gorm.io/gorm"
)

const listLimit = 100

// Repository exposes tier and gated content persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTier inserts a new subscription tier.
func (r *Repository) CreateTier(ctx context.Context, tier *models.SubscriptionTier) error {
	return r.DB(ctx).Create(tier).Error
}

// FindTier loads a tier by id.
func (r *Repository) FindTier(ctx context.Context, tierID string) (*models.SubscriptionTier, error) {
	var tier models.SubscriptionTier
	if err := r.DB(ctx).First(&tier, "id = ?", tierID).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

// ListTiersByArtist returns the tiers an artist offers.
func (r *Repository) ListTiersByArtist(ctx context.Context, artistID string) ([]models.SubscriptionTier, error) {
	var tiers []models.SubscriptionTier
	err := r.DB(ctx).
		Where("artist_id = ?", artistID).
		Limit(listLimit).
		Find(&tiers).Error
	return tiers, err
}

// CreateContent inserts a new gated content item.
func (r *Repository) CreateContent(ctx context.Context, content *models.GatedContent) error {
	return r.DB(ctx).Create(content).Error
}

// ListContentByArtist returns all content an artist has published.
func (r *Repository) ListContentByArtist(ctx context.Context, artistID string) ([]models.GatedContent, error) {
	var items []models.GatedContent
	err := r.DB(ctx).
		Where("artist_id = ?", artistID).
		Limit(listLimit).
		Find(&items).Error
	return items, err
}
