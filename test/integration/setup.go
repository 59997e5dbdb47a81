package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"larder/internal/backup"
	"larder/internal/classifier"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/events"
	"larder/internal/handler"
	"larder/internal/ledger"
	"larder/internal/lookup"
	"larder/internal/repository"
	"larder/internal/router"
	"larder/internal/service"
	"larder/internal/storage"
	"larder/internal/taxonomy"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the
// lookup cache schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	parsed, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            parsed.ConnConfig.Host,
		Port:            int(parsed.ConnConfig.Port),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the lookup cache table.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	repo := repository.NewLookupCacheRepository(pool, 0, zerolog.Nop())
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	tables := []string{"lookup_cache"}
	for _, table := range tables {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// CatalogProduct is a product known to the fake barcode catalog.
type CatalogProduct struct {
	Name           string
	Brand          string
	CategoriesTags []string
}

// FakeCatalog serves the Open Food Facts, UPCitemdb and OpenGTINDB endpoints
// from one httptest server. Only Open Food Facts knows any product.
type FakeCatalog struct {
	Server   *httptest.Server
	products map[string]CatalogProduct
	requests atomic.Int64
}

// NewFakeCatalog starts a catalog serving products.
func NewFakeCatalog(t *testing.T, products map[string]CatalogProduct) *FakeCatalog {
	t.Helper()

	c := &FakeCatalog{products: products}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/product/{file}", func(w http.ResponseWriter, r *http.Request) {
		c.requests.Add(1)
		barcode := strings.TrimSuffix(r.PathValue("file"), ".json")
		p, ok := c.products[barcode]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			fmt.Fprint(w, `{"status":0}`)
			return
		}
		tags := `"` + strings.Join(p.CategoriesTags, `","`) + `"`
		if len(p.CategoriesTags) == 0 {
			tags = ""
		}
		fmt.Fprintf(w, `{"status":1,"product":{"product_name":%q,"brands":%q,"categories_tags":[%s]}}`, p.Name, p.Brand, tags)
	})
	mux.HandleFunc("GET /prod/trial/lookup", func(w http.ResponseWriter, r *http.Request) {
		c.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[]}`)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		c.requests.Add(1)
		fmt.Fprint(w, "error=1\n---\n")
	})

	c.Server = httptest.NewServer(mux)
	t.Cleanup(c.Server.Close)
	return c
}

// Requests reports how many provider calls the catalog has answered.
func (c *FakeCatalog) Requests() int64 {
	return c.requests.Load()
}

// Cascade builds a lookup cascade over the catalog, optionally cached.
func (c *FakeCatalog) Cascade(t *testing.T, cache lookup.Cache) *lookup.Cascade {
	t.Helper()

	providers, err := lookup.NewProviders(nil, lookup.Endpoints{
		OpenFoodFacts: c.Server.URL,
		UPCItemDB:     c.Server.URL,
		OpenGTINDB:    c.Server.URL,
	}, c.Server.Client(), zerolog.Nop())
	require.NoError(t, err)

	var opts []lookup.Option
	if cache != nil {
		opts = append(opts, lookup.WithCache(cache))
	}
	return lookup.NewCascade(providers, 2*time.Second, zerolog.Nop(), opts...)
}

// TestApp is the full HTTP stack over files in one directory.
type TestApp struct {
	Handler   http.Handler
	Service   service.InventoryService
	Dir       string
	BackupDir string
}

// NewTestApp wires the server the way cmd/api does, persisting to dir.
// Calling it twice with the same dir simulates a restart.
func NewTestApp(t *testing.T, dir string, catalog *FakeCatalog) *TestApp {
	t.Helper()

	logger := zerolog.Nop()

	tax, err := taxonomy.NewStore(storage.NewJSONFile(filepath.Join(dir, "inventory_options.json"), logger), logger)
	require.NoError(t, err)

	inventory := ledger.New(storage.NewJSONFile(filepath.Join(dir, "inventory_data.json"), logger), logger)
	require.NoError(t, inventory.Load())

	backupDir := filepath.Join(dir, "backups")

	svc := service.NewInventoryService(service.Dependencies{
		Ledger:     inventory,
		Taxonomy:   tax,
		Classifier: classifier.NewDefault(),
		Lookup:     catalog.Cascade(t, nil),
		Events:     events.NewEmitter(64, logger),
		Backup:     backup.NewDirStore(backupDir, logger),
	}, logger)

	h := router.New(router.Handlers{
		Products:   handler.NewProductHandler(svc, logger),
		Categories: handler.NewTaxonomyHandler(svc, taxonomy.KindCategory, logger),
		Zones:      handler.NewTaxonomyHandler(svc, taxonomy.KindZone, logger),
		Transfer:   handler.NewTransferHandler(svc, logger),
	}, testAPIKey, logger)

	return &TestApp{Handler: h, Service: svc, Dir: dir, BackupDir: backupDir}
}
