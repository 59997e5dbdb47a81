// Package transfer converts inventory state to and from portable documents.
package transfer

import (
	"fmt"
	"sort"
	"time"

	"larder/internal/dates"
	"larder/internal/model"
	"larder/internal/taxonomy"
)

// Version tags exported documents.
const Version = "1.15.0"

// Shape selects how products are laid out in an exported document.
type Shape string

const (
	// ShapeInternal keys products by id, exactly as persisted.
	ShapeInternal Shape = "internal"
	// ShapeLocation groups products into per-location lists carrying their id
	// and days until expiry.
	ShapeLocation Shape = "location"
)

// ParseShape converts a raw shape name. Empty means ShapeInternal.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case "", ShapeInternal:
		return ShapeInternal, nil
	case ShapeLocation:
		return ShapeLocation, nil
	default:
		return "", model.NewDomainError(model.ErrCodeInvalidDocument, fmt.Sprintf("unknown export shape %q (must be internal or location)", s))
	}
}

// Snapshot is the state bundled into an export.
type Snapshot struct {
	Products   map[string]model.Product
	History    []model.HistoryEntry
	Categories taxonomy.Lists
	Zones      taxonomy.Lists
}

// Document is an exported inventory.
type Document struct {
	Version        string               `json:"version"`
	ExportDate     string               `json:"export_date"`
	Products       any                  `json:"products"`
	ProductHistory []model.HistoryEntry `json:"product_history"`
	Categories     taxonomy.Lists       `json:"categories"`
	Zones          taxonomy.Lists       `json:"zones"`
}

// BuildExport assembles the export document for snap.
func BuildExport(snap Snapshot, shape Shape, now time.Time) Document {
	doc := Document{
		Version:        Version,
		ExportDate:     now.Format(time.RFC3339),
		ProductHistory: snap.History,
		Categories:     snap.Categories,
		Zones:          snap.Zones,
	}
	if doc.ProductHistory == nil {
		doc.ProductHistory = []model.HistoryEntry{}
	}

	switch shape {
	case ShapeLocation:
		doc.Products = byLocation(snap.Products, now)
	default:
		products := snap.Products
		if products == nil {
			products = map[string]model.Product{}
		}
		doc.Products = products
	}
	return doc
}

func byLocation(products map[string]model.Product, now time.Time) map[model.Location][]model.ProductView {
	out := make(map[model.Location][]model.ProductView, len(model.Locations))
	for _, loc := range model.Locations {
		out[loc] = []model.ProductView{}
	}

	for id, p := range products {
		view := model.ProductView{ID: id, Product: p}
		if days, err := dates.DaysUntilString(p.ExpiryDate, now); err == nil {
			view.DaysUntilExpiry = &days
		}
		out[p.Location] = append(out[p.Location], view)
	}

	for loc := range out {
		views := out[loc]
		sort.Slice(views, func(i, j int) bool {
			if views[i].ExpiryDate != views[j].ExpiryDate {
				return views[i].ExpiryDate < views[j].ExpiryDate
			}
			return views[i].ID < views[j].ID
		})
	}
	return out
}
