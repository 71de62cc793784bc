package models

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PaymentTransaction records one checkout attempt against the payment
// gateway. SessionID is the gateway's checkout session identifier and is
// the reconciliation key; the unique index backs the paid-exactly-once
// guarantee.
type PaymentTransaction struct {
	ID            string                  `gorm:"type:text;primaryKey"`
	SessionID     string                  `gorm:"column:session_id;type:text;not null;uniqueIndex"`
	UserID        string                  `gorm:"column:user_id;type:text;not null;index"`
	ArtistID      string                  `gorm:"column:artist_id;type:text;not null;index"`
	TierID        string                  `gorm:"column:tier_id;type:text;not null"`
	Amount        decimal.Decimal         `gorm:"type:decimal(10,2);not null"`
	Currency      string                  `gorm:"type:text;not null"`
	Status        enums.TransactionStatus `gorm:"type:text;not null;default:pending;index"`
	PaymentStatus enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:initiated"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
