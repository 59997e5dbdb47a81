package repository

import (
	"context"
	"time"

	"larder/internal/model"
)

// LookupCacheRepository persists barcode lookup results.
type LookupCacheRepository interface {
	// EnsureSchema creates the cache table when it does not exist.
	EnsureSchema(ctx context.Context) error

	// Get returns a cached result younger than the configured TTL, or nil.
	Get(ctx context.Context, barcode string) (*model.ProductInfo, error)

	// Put inserts or refreshes the cached result for info.Barcode.
	Put(ctx context.Context, info *model.ProductInfo) error

	// Purge deletes entries cached before cutoff and returns how many went.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}
