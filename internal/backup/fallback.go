package backup

import (
	"context"

	"github.com/rs/zerolog"
)

// fallbackStore tries S3 first, then the local directory.
type fallbackStore struct {
	s3Store   Store
	dirStore  Store
	s3Prefix  string
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a Store that writes to and reads from S3 when
// enabled and falls back to the local store on failure. S3 keys are prefixed
// with s3Prefix; local keys are used as-is. A nil s3Store means local only.
func NewFallbackStore(s3Store, dirStore Store, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		dirStore:  dirStore,
		s3Prefix:  s3Prefix,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "backup-fallback").Logger(),
	}
}

func (s *fallbackStore) useS3() bool {
	return s.s3Enabled && s.s3Store != nil
}

// Put uploads to S3, writing locally only when the upload fails.
func (s *fallbackStore) Put(ctx context.Context, key string, data []byte) error {
	if s.useS3() {
		s3Key := s.s3Prefix + key
		err := s.s3Store.Put(ctx, s3Key, data)
		if err == nil {
			return nil
		}
		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to write to S3, falling back to local directory")
	}
	return s.dirStore.Put(ctx, key, data)
}

// Get reads from S3, then from the local directory.
func (s *fallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.useS3() {
		s3Key := s.s3Prefix + key
		data, err := s.s3Store.Get(ctx, s3Key)
		if err == nil {
			return data, nil
		}
		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to read from S3, falling back to local directory")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_store", s.s3Store != nil).
			Msg("S3 disabled or not configured, using local directory")
	}
	return s.dirStore.Get(ctx, key)
}
