package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"larder/internal/backup"
	"larder/internal/model"
	"larder/internal/taxonomy"
	"larder/internal/transfer"
)

// Export snapshots the ledger and both taxonomies.
func (s *inventoryService) Export(ctx context.Context, shape transfer.Shape) (transfer.Document, error) {
	shape, err := transfer.ParseShape(string(shape))
	if err != nil {
		return transfer.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categories, zones := s.taxonomy.Snapshot()
	snap := transfer.Snapshot{
		Products:   s.ledger.Products(),
		History:    s.ledger.History(),
		Categories: categories,
		Zones:      zones,
	}
	return transfer.BuildExport(snap, shape, s.now()), nil
}

// Import decodes raw completely, then installs each section it carries.
func (s *inventoryService) Import(ctx context.Context, raw []byte) (*model.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, err := transfer.Parse(raw, s.ledger.NewID, s.logger)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected import document")
		return nil, err
	}

	result := &model.ImportResult{}
	ledgerChanged := false

	// Taxonomy persists itself; a failure there must leave the ledger alone.
	if parsed.Categories != nil {
		if result.Categories, err = s.taxonomy.Replace(taxonomy.KindCategory, *parsed.Categories); err != nil {
			return nil, err
		}
	}
	if parsed.Zones != nil {
		if result.Zones, err = s.taxonomy.Replace(taxonomy.KindZone, *parsed.Zones); err != nil {
			return nil, err
		}
	}
	if parsed.Products != nil {
		result.Products = s.ledger.ReplaceProducts(parsed.Products)
		s.throttle.Retain(func(id string) bool {
			_, ok := s.ledger.Get(id)
			return ok
		})
		ledgerChanged = true
	}
	if parsed.History != nil {
		result.History = s.ledger.ReplaceHistory(parsed.History)
		ledgerChanged = true
	}

	if ledgerChanged {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("shape", string(parsed.Shape)).
		Int("products", result.Products).
		Int("history", result.History).
		Int("categories", result.Categories).
		Int("zones", result.Zones).
		Msg("inventory imported")
	return result, nil
}

// ExportToBackup stores a compressed export under a timestamped key.
func (s *inventoryService) ExportToBackup(ctx context.Context, shape transfer.Shape) (string, error) {
	if s.backup == nil {
		return "", model.ErrBackupDisabled
	}

	doc, err := s.Export(ctx, shape)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := backup.Key(s.now())
	if err := s.backup.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to store backup: %w", err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("backup exported")
	return key, nil
}

// ImportFromBackup fetches the archive stored under key and imports it.
func (s *inventoryService) ImportFromBackup(ctx context.Context, key string) (*model.ImportResult, error) {
	if s.backup == nil {
		return nil, model.ErrBackupDisabled
	}
	if key == "" {
		return nil, model.ErrMissingKey
	}

	data, err := s.backup.Get(ctx, key)
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			return nil, model.NewDomainError(model.ErrCodeBackupNotFound, fmt.Sprintf("backup %q not found", key))
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return s.Import(ctx, data)
}
