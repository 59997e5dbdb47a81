// Package backup stores gzip-compressed export documents in S3 or a local
// directory.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when no archive exists under the requested key.
var ErrNotFound = errors.New("backup not found")

// maxArchiveSize bounds the decompressed size of an archive.
const maxArchiveSize = 64 << 20

// Store persists export archives. Implementations compress on Put and
// decompress on Get; callers only see the raw document bytes.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Key returns the archive key for an export taken at now.
func Key(now time.Time) string {
	return "exports/larder-" + now.UTC().Format("20060102T150405Z") + ".json.gz"
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress archive: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress archive: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(r io.Reader) ([]byte, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	data, err := io.ReadAll(io.LimitReader(gzipReader, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if len(data) > maxArchiveSize {
		return nil, fmt.Errorf("archive exceeds %d bytes", maxArchiveSize)
	}
	return data, nil
}
