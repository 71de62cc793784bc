package models

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/enums"
)

// Subscription links a fan to an artist tier after a completed checkout.
// StripeSubscriptionID holds the checkout session that funded it.
type Subscription struct {
	ID                   string                   `gorm:"type:text;primaryKey"`
	FanUserID            string                   `gorm:"column:fan_user_id;type:text;not null;index"`
	ArtistID             string                   `gorm:"column:artist_id;type:text;not null;index"`
	TierID               string                   `gorm:"column:tier_id;type:text;not null"`
	StripeSubscriptionID *string                  `gorm:"column:stripe_subscription_id;type:text"`
	Status               enums.SubscriptionStatus `gorm:"type:text;not null;default:active;index"`
	StartedAt            time.Time                `gorm:"column:started_at;autoCreateTime"`
	EndsAt               *time.Time               `gorm:"column:ends_at"`
}
