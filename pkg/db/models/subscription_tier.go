package models

import (
	"time"

	dbtypes "github.com/favatis/favatis-backend/pkg/db/types"
	"github.com/shopspring/decimal"
)

// SubscriptionTier is a paid membership level defined by an artist.
// Price is a monthly amount in major currency units.
type SubscriptionTier struct {
	ID            string             `gorm:"type:text;primaryKey"`
	ArtistID      string             `gorm:"column:artist_id;type:text;not null;index"`
	Name          string             `gorm:"type:text;not null"`
	Price         decimal.Decimal    `gorm:"type:decimal(10,2);not null"`
	Benefits      dbtypes.StringList `gorm:"type:text;not null;default:'[]'"`
	StripePriceID *string            `gorm:"column:stripe_price_id;type:text"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
