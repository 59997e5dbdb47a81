package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"larder/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const lookupCacheSchema = `
	CREATE TABLE IF NOT EXISTS lookup_cache (
		barcode TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		source TEXT NOT NULL,
		cached_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_lookup_cache_cached_at ON lookup_cache(cached_at);
`

// lookupCacheRepository implements LookupCacheRepository using PostgreSQL.
type lookupCacheRepository struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewLookupCacheRepository creates a PostgreSQL-backed lookup cache. Entries
// older than ttl are treated as absent; ttl <= 0 keeps entries forever.
func NewLookupCacheRepository(pool *pgxpool.Pool, ttl time.Duration, logger zerolog.Logger) LookupCacheRepository {
	return &lookupCacheRepository{
		pool:   pool,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("repository", "lookup_cache").Logger(),
	}
}

func (r *lookupCacheRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, lookupCacheSchema); err != nil {
		r.logger.Error().Err(err).Msg("failed to create lookup cache schema")
		return fmt.Errorf("failed to create lookup cache schema: %w", err)
	}
	return nil
}

func (r *lookupCacheRepository) Get(ctx context.Context, barcode string) (*model.ProductInfo, error) {
	query := `
		SELECT payload, source, cached_at
		FROM lookup_cache
		WHERE barcode = $1
	`

	var (
		payload  []byte
		source   string
		cachedAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, barcode).Scan(&payload, &source, &cachedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query lookup cache")
		return nil, fmt.Errorf("failed to query lookup cache: %w", err)
	}

	if r.ttl > 0 && r.now().Sub(cachedAt) > r.ttl {
		r.logger.Debug().Str("barcode", barcode).Time("cached_at", cachedAt).Msg("lookup cache entry expired")
		return nil, nil
	}

	var info model.ProductInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		r.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to decode cached lookup")
		return nil, fmt.Errorf("failed to decode cached lookup: %w", err)
	}
	info.Barcode = barcode
	info.Source = source

	return &info, nil
}

func (r *lookupCacheRepository) Put(ctx context.Context, info *model.ProductInfo) error {
	if info == nil || info.Barcode == "" {
		return model.ErrMissingBarcode
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode lookup: %w", err)
	}

	query := `
		INSERT INTO lookup_cache (barcode, payload, source, cached_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (barcode) DO UPDATE
		SET payload = EXCLUDED.payload,
			source = EXCLUDED.source,
			cached_at = EXCLUDED.cached_at
	`

	if _, err := r.pool.Exec(ctx, query, info.Barcode, payload, info.Source, r.now().UTC()); err != nil {
		r.logger.Error().Err(err).Str("barcode", info.Barcode).Msg("failed to store lookup")
		return fmt.Errorf("failed to store lookup: %w", err)
	}

	r.logger.Debug().Str("barcode", info.Barcode).Str("source", info.Source).Msg("lookup cached")
	return nil
}

func (r *lookupCacheRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lookup_cache WHERE cached_at < $1`, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to purge lookup cache")
		return 0, fmt.Errorf("failed to purge lookup cache: %w", err)
	}

	if n := tag.RowsAffected(); n > 0 {
		r.logger.Info().Int64("purged", n).Msg("purged stale lookup cache entries")
	}
	return tag.RowsAffected(), nil
}
