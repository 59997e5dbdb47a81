// Package lookup resolves barcodes to product metadata by querying external
// product databases in priority order.
package lookup

import (
	"context"

	"larder/internal/model"
)

// Provider fetches product metadata from one external database.
type Provider interface {
	// Name is the display name recorded as the result source.
	Name() string

	// Fetch returns (nil, nil) when the database does not know the barcode.
	// Transport, status and decoding failures are returned as errors.
	Fetch(ctx context.Context, barcode string) (*model.ProductInfo, error)
}

// Cache stores previously resolved lookups.
type Cache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, barcode string) (*model.ProductInfo, error)
	Put(ctx context.Context, info *model.ProductInfo) error
}
