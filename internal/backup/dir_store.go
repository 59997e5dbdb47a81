package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// dirStore implements Store on a local directory.
type dirStore struct {
	dir    string
	logger zerolog.Logger
}

// NewDirStore creates a Store that writes archives below dir.
func NewDirStore(dir string, logger zerolog.Logger) Store {
	return &dirStore{
		dir:    dir,
		logger: logger.With().Str("component", "backup-dir").Logger(),
	}
}

func (s *dirStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid backup key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Put writes data, gzip-compressed, to the file named by key.
func (s *dirStore) Put(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	compressed, err := compress(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write backup %s: %w", key, err)
	}

	s.logger.Info().Str("file", path).Int("bytes", len(compressed)).Msg("backup written")
	return nil
}

// Get reads and decompresses the file named by key.
func (s *dirStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open backup")
		return nil, fmt.Errorf("failed to open backup %s: %w", key, err)
	}
	defer file.Close()

	data, err := decompress(file)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to read backup")
		return nil, fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	return data, nil
}
