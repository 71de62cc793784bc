// Package repo carries the shared plumbing embedded by every domain
// repository.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle a domain repository operates on.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the provided connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the connection to ctx so cancellation flows into queries. A nil
// context returns the raw handle, which tx-scoped methods rely on.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
