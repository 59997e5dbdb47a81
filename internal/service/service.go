package service

import (
	"context"

	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/model"
	"larder/internal/taxonomy"
	"larder/internal/transfer"
)

// InventoryService defines every operation of the inventory coordinator.
type InventoryService interface {
	// AddProduct stores a new product and returns its id.
	AddProduct(ctx context.Context, req model.NewProduct) (string, error)

	// ScanAndAdd looks a barcode up, classifies the result and stores it. A
	// barcode unknown to every provider still produces a placeholder product.
	ScanAndAdd(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error)

	// LookupProduct queries the providers without touching the inventory.
	LookupProduct(ctx context.Context, barcode string) (*model.ProductInfo, bool, error)

	// RemoveProduct deletes a product. It reports false for unknown ids.
	RemoveProduct(ctx context.Context, id string) (bool, error)

	// UpdateQuantity sets the quantity of a product; zero or less removes it.
	UpdateQuantity(ctx context.Context, id string, quantity int) (bool, error)

	// UpdateProduct applies a partial update.
	UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (bool, error)

	// ListProducts returns the products of loc, or of every location when loc
	// is empty.
	ListProducts(ctx context.Context, loc model.Location) ([]model.ProductView, error)

	// ExpiringWithin returns products expiring in at most days days,
	// including expired ones, soonest first.
	ExpiringWithin(ctx context.Context, days int) []model.ProductView

	// History returns the recently added names, most recent first.
	History(ctx context.Context) []model.HistoryEntry

	// ClearLocation removes every product of loc and returns how many.
	ClearLocation(ctx context.Context, loc model.Location) (int, error)

	// ResetAll removes every product and the history.
	ResetAll(ctx context.Context) (model.ResetResult, error)

	ListTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error)
	AddTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error)
	RemoveTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error)
	RenameTaxonomy(ctx context.Context, kind taxonomy.Kind, oldName, newName string, loc model.Location) (bool, error)
	ResetTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error)

	// Export builds a document of the whole state.
	Export(ctx context.Context, shape transfer.Shape) (transfer.Document, error)

	// Import replaces the sections present in raw. Nothing changes when raw
	// cannot be decoded.
	Import(ctx context.Context, raw []byte) (*model.ImportResult, error)

	// ExportToBackup writes an export archive and returns its key.
	ExportToBackup(ctx context.Context, shape transfer.Shape) (string, error)

	// ImportFromBackup imports the archive stored under key.
	ImportFromBackup(ctx context.Context, key string) (*model.ImportResult, error)

	// Sweep emits expiry notifications and recomputes the summary.
	Sweep(ctx context.Context) (expiry.Summary, error)

	// Summary returns the current inventory overview.
	Summary(ctx context.Context) expiry.Summary

	// DrainEvents returns and clears the pending events.
	DrainEvents(ctx context.Context) []events.Event
}

// ProductLookup resolves barcodes.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*model.ProductInfo, bool)
}

// EventSink records events for subscribers and pollers.
type EventSink interface {
	Emit(topic string, data any)
	Drain() []events.Event
}
