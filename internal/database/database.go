// Package database opens the PostgreSQL pool backing the barcode lookup
// cache. The inventory itself never touches the database.
package database

import (
	"context"
	"fmt"
	"time"

	"larder/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// applicationName shows up in pg_stat_activity.
const applicationName = "larder-lookup-cache"

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// PoolConfig translates cfg into pgxpool settings without connecting.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	// Cache traffic is bursty (one query per scan); idle connections can go.
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	return poolConfig, nil
}

// NewPool creates the lookup cache connection pool and checks it can reach
// the server.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().Str("component", "database").Logger()

	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Msg("opening lookup cache database")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("lookup cache database unreachable")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("lookup cache database ready")
	return pool, nil
}
