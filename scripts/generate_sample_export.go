//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"larder/internal/backup"
	"larder/internal/model"
	"larder/internal/taxonomy"
	"larder/internal/transfer"

	"github.com/rs/zerolog"
)

// generateSampleExport writes a gzip export archive to backups/ that can be
// restored with POST /api/import?backup_key=<key>.
// Products expire yesterday, today, in two days and next month so that every
// expiry bucket of the summary is populated.
func main() {
	dir := "backups"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	now := time.Now()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	snap := transfer.Snapshot{
		Products: map[string]model.Product{
			"samp0001": {Name: "Yaourt nature", ExpiryDate: day(-1), Location: model.LocationFridge, Quantity: 4, Category: "Produits laitiers", Zone: "Zone 1", AddedDate: day(-10)},
			"samp0002": {Name: "Salade verte", ExpiryDate: day(0), Location: model.LocationFridge, Quantity: 1, Category: "Légumes frais", Zone: "Zone 3", AddedDate: day(-3)},
			"samp0003": {Name: "Steak haché", ExpiryDate: day(2), Location: model.LocationFreezer, Quantity: 2, Category: "Viande", Zone: "Zone 1", AddedDate: day(-30)},
			"samp0004": {Name: "Pâtes", ExpiryDate: day(30), Location: model.LocationPantry, Quantity: 3, Category: "Pâtes/Riz/Céréales", Zone: "Zone 2", AddedDate: day(-5)},
		},
		Categories: taxonomy.DefaultLists(taxonomy.KindCategory),
		Zones:      taxonomy.DefaultLists(taxonomy.KindZone),
	}

	doc := transfer.BuildExport(snap, transfer.ShapeInternal, now)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode export: %v", err)
	}

	key := backup.Key(now)
	if err := backup.NewDirStore(dir, logger).Put(context.Background(), key, data); err != nil {
		log.Fatalf("Failed to write archive: %v", err)
	}

	fmt.Printf("Sample export written to %s/%s\n", dir, key)
	fmt.Printf("Restore with: POST /api/import?backup_key=%s\n", key)
}
