// Package store provides the expiring per-symbol cache.
package store

import (
	"context"
	"time"

	"stock-tracker/internal/models"
)

// Cache is the read side of the expiring cache. A Get on an entry older
// than ttl, on a missing entry, or on an entry that fails to deserialize
// returns ErrCacheMiss; Put overwrites the previous entry for the symbol
// (last-writer-wins).
type Cache interface {
	Get(ctx context.Context, symbol string, ttl time.Duration) (*models.MarketData, error)
	Put(ctx context.Context, data *models.MarketData) error
	Close() error
}
