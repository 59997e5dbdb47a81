//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"larder/internal/config"

	"github.com/jackc/pgx/v5"
)

// checkLookupCache connects with the DB_* settings and reports the size and
// age of the barcode lookup cache.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var (
		count  int64
		oldest *time.Time
	)
	err = conn.QueryRow(ctx, "SELECT COUNT(*), MIN(cached_at) FROM lookup_cache").Scan(&count, &oldest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup_cache is not readable (run the server with LOOKUP_CACHE_ENABLED=true first): %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cached lookups: %d\n", count)
	if oldest != nil {
		fmt.Printf("Oldest entry:   %s\n", oldest.Format(time.RFC3339))
	}

	rows, err := conn.Query(ctx, "SELECT source, COUNT(*) FROM lookup_cache GROUP BY source ORDER BY source")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Println("\nBy source:")
	for rows.Next() {
		var (
			source string
			n      int64
		)
		if err := rows.Scan(&source, &n); err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %s: %d\n", source, n)
	}
}
