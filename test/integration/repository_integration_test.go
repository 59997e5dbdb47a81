package integration

import (
	"context"
	"testing"
	"time"

	"larder/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("cascade hits are cached in postgres", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		catalog := NewFakeCatalog(t, testCatalog)
		cache := repository.NewLookupCacheRepository(testDB.Pool, time.Hour, logger)
		cascade := catalog.Cascade(t, cache)

		info, found := cascade.Lookup(ctx, "3017620422003")
		require.True(t, found)
		assert.Equal(t, "Steak haché", info.Name)
		assert.Equal(t, "Open Food Facts", info.Source)
		requests := catalog.Requests()

		cached, err := cache.Get(ctx, "3017620422003")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "Charal", cached.Brand)

		info, found = cascade.Lookup(ctx, "3017620422003")
		require.True(t, found)
		assert.Equal(t, "Steak haché", info.Name)
		assert.Equal(t, requests, catalog.Requests(), "second lookup should not reach the providers")
	})

	t.Run("misses are not cached", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		catalog := NewFakeCatalog(t, testCatalog)
		cache := repository.NewLookupCacheRepository(testDB.Pool, time.Hour, logger)
		cascade := catalog.Cascade(t, cache)

		_, found := cascade.Lookup(ctx, "0000000000017")
		assert.False(t, found)

		cached, err := cache.Get(ctx, "0000000000017")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("cache survives a new cascade", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		catalog := NewFakeCatalog(t, testCatalog)
		cache := repository.NewLookupCacheRepository(testDB.Pool, time.Hour, logger)

		_, found := catalog.Cascade(t, cache).Lookup(ctx, "3017620422003")
		require.True(t, found)

		catalog.Server.Close()

		info, found := catalog.Cascade(t, cache).Lookup(ctx, "3017620422003")
		require.True(t, found)
		assert.Equal(t, "Steak haché", info.Name)
	})

	t.Run("purge drops stale entries", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		catalog := NewFakeCatalog(t, testCatalog)
		cache := repository.NewLookupCacheRepository(testDB.Pool, time.Hour, logger)

		_, found := catalog.Cascade(t, cache).Lookup(ctx, "3017620422003")
		require.True(t, found)

		purged, err := cache.Purge(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		cached, err := cache.Get(ctx, "3017620422003")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})
}
