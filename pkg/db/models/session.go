package models

import "time"

// Session is an opaque bearer credential persisted per login.
// Expiry is enforced at lookup time rather than by a background sweeper.
type Session struct {
	Token     string    `gorm:"type:text;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:text;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
