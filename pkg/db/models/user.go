package models

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID        string     `gorm:"type:text;primaryKey"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	Name      string     `gorm:"type:text;not null"`
	Picture   *string    `gorm:"type:text"`
	Role      enums.Role `gorm:"type:text;not null;default:fan"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
