package catalog

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/db/models"
	dbtypes "github.com/favatis/favatis-backend/pkg/db/types"
)

// TierDTO is the transport shape of a subscription tier. Price is rendered
// as a fixed two-decimal string.
type TierDTO struct {
	TierID        string    `json:"tier_id"`
	ArtistID      string    `json:"artist_id"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	Benefits      []string  `json:"benefits"`
	StripePriceID *string   `json:"stripe_price_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TierCreateRequest defines a new paid tier.
type TierCreateRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=200"`
	Price    float64  `json:"price" validate:"required,gt=0"`
	Benefits []string `json:"benefits" validate:"required,dive,min=1,max=500"`
}

// ContentDTO is the transport shape of a gated content item.
type ContentDTO struct {
	ContentID    string    `json:"content_id"`
	ArtistID     string    `json:"artist_id"`
	Title        string    `json:"title"`
	ContentType  string    `json:"content_type"`
	ContentText  *string   `json:"content_text,omitempty"`
	ExternalLink *string   `json:"external_link,omitempty"`
	TierIDs      []string  `json:"tier_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContentCreateRequest publishes a new gated content item.
type ContentCreateRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=300"`
	ContentType  string   `json:"content_type" validate:"required,min=1,max=50"`
	ContentText  *string  `json:"content_text" validate:"omitempty,max=20000"`
	ExternalLink *string  `json:"external_link" validate:"omitempty,url"`
	TierIDs      []string `json:"tier_ids" validate:"required"`
}

func tierFromModel(t *models.SubscriptionTier) *TierDTO {
	if t == nil {
		return nil
	}

	return &TierDTO{
		TierID:        t.ID,
		ArtistID:      t.ArtistID,
		Name:          t.Name,
		Price:         t.Price.StringFixed(2),
		Benefits:      append([]string(nil), []string(t.Benefits)...),
		StripePriceID: t.StripePriceID,
		CreatedAt:     t.CreatedAt,
	}
}

func tiersFromModels(tiers []models.SubscriptionTier) []TierDTO {
	out := make([]TierDTO, 0, len(tiers))
	for i := range tiers {
		out = append(out, *tierFromModel(&tiers[i]))
	}
	return out
}

func contentFromModel(c *models.GatedContent) *ContentDTO {
	if c == nil {
		return nil
	}

	return &ContentDTO{
		ContentID:    c.ID,
		ArtistID:     c.ArtistID,
		Title:        c.Title,
		ContentType:  c.ContentType,
		ContentText:  c.ContentText,
		ExternalLink: c.ExternalLink,
		TierIDs:      append([]string(nil), []string(c.TierIDs)...),
		CreatedAt:    c.CreatedAt,
	}
}

func contentFromModels(items []models.GatedContent) []ContentDTO {
	out := make([]ContentDTO, 0, len(items))
	for i := range items {
		out = append(out, *contentFromModel(&items[i]))
	}
	return out
}

func toStringList(values []string) dbtypes.StringList {
	if values == nil {
		return dbtypes.StringList{}
	}
	return dbtypes.StringList(append([]string(nil), values...))
}
