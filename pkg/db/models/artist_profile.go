package models

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/enums"
)

// ArtistProfile carries an artist application through draft, review and
// approval. A user owns at most one profile.
type ArtistProfile struct {
	ID           string             `gorm:"type:text;primaryKey"`
	UserID       string             `gorm:"column:user_id;type:text;not null;uniqueIndex"`
	Name         string             `gorm:"type:text;not null"`
	Bio          *string            `gorm:"type:text"`
	SpotifyLink  string             `gorm:"column:spotify_link;type:text;not null"`
	ProfileImage *string            `gorm:"column:profile_image;type:text"`
	Status       enums.ArtistStatus `gorm:"type:text;not null;default:draft;index"`
	SubmittedAt  *time.Time         `gorm:"column:submitted_at"`
	ApprovedAt   *time.Time         `gorm:"column:approved_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
