package subscriptions

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
)

// SubscriptionDTO is the transport shape of a fan subscription.
type SubscriptionDTO struct {
	SubscriptionID       string                   `json:"subscription_id"`
	FanUserID            string                   `json:"fan_user_id"`
	ArtistID             string                   `json:"artist_id"`
	TierID               string                   `json:"tier_id"`
	StripeSubscriptionID *string                  `json:"stripe_subscription_id,omitempty"`
	Status               enums.SubscriptionStatus `json:"status"`
	StartedAt            time.Time                `json:"started_at"`
	EndsAt               *time.Time               `json:"ends_at,omitempty"`
}

func FromModel(s *models.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}

	return &SubscriptionDTO{
		SubscriptionID:       s.ID,
		FanUserID:            s.FanUserID,
		ArtistID:             s.ArtistID,
		TierID:               s.TierID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		Status:               s.Status,
		StartedAt:            s.StartedAt,
		EndsAt:               s.EndsAt,
	}
}

func FromModels(subs []models.Subscription) []SubscriptionDTO {
	out := make([]SubscriptionDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *FromModel(&subs[i]))
	}
	return out
}
