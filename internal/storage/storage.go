// Package storage persists whole JSON documents to a single file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// JSONFile reads and writes one JSON document. Reads and writes are fully
// serialised; every Save writes the complete document.
type JSONFile struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewJSONFile creates a JSON document store backed by path.
func NewJSONFile(path string, logger zerolog.Logger) *JSONFile {
	return &JSONFile{
		path:   path,
		logger: logger.With().Str("component", "storage").Str("file", path).Logger(),
	}
}

// Path returns the backing file path.
func (f *JSONFile) Path() string {
	return f.path
}

// Load decodes the document into v. It reports false when the file does not
// exist yet, in which case v is left untouched.
func (f *JSONFile) Load(v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug().Msg("storage file does not exist yet")
			return false, nil
		}
		f.logger.Error().Err(err).Msg("failed to read storage file")
		return false, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		f.logger.Error().Err(err).Msg("failed to decode storage file")
		return false, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}

	return true, nil
}

// Save encodes v and replaces the file atomically.
func (f *JSONFile) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to create temp file")
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		f.logger.Error().Err(err).Msg("failed to replace storage file")
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}

	f.logger.Debug().Int("bytes", len(data)).Msg("storage file saved")
	return nil
}
