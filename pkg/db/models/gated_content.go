package models

import (
	"time"

	dbtypes "github.com/favatis/favatis-backend/pkg/db/types"
)

// GatedContent is a content item visible only to fans subscribed to one of
// the listed tiers. An empty TierIDs list means no tier unlocks it.
type GatedContent struct {
	ID           string             `gorm:"type:text;primaryKey"`
	ArtistID     string             `gorm:"column:artist_id;type:text;not null;index"`
	Title        string             `gorm:"type:text;not null"`
	ContentType  string             `gorm:"column:content_type;type:text;not null"`
	ContentText  *string            `gorm:"column:content_text;type:text"`
	ExternalLink *string            `gorm:"column:external_link;type:text"`
	TierIDs      dbtypes.StringList `gorm:"column:tier_ids;type:text;not null;default:'[]'"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
