package service

import (
	"context"
	"strings"

	"larder/internal/ledger"
	"larder/internal/model"
	"larder/internal/taxonomy"
)

// ListTaxonomy returns the entries of kind at loc.
func (s *inventoryService) ListTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error) {
	if _, err := model.ParseLocation(string(loc)); err != nil {
		return nil, err
	}
	return s.taxonomy.List(kind, loc), nil
}

// AddTaxonomy appends name to the entries of kind at loc.
func (s *inventoryService) AddTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error) {
	name, err := entryArgs(name, loc)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.taxonomy.Add(kind, name, loc)
}

// RemoveTaxonomy deletes name and moves the products of loc that carried it
// to the replacement entry.
func (s *inventoryService) RemoveTaxonomy(ctx context.Context, kind taxonomy.Kind, name string, loc model.Location) (bool, error) {
	name, err := entryArgs(name, loc)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replacement, removed, err := s.taxonomy.Remove(kind, name, loc)
	if err != nil || !removed {
		return false, err
	}

	moved := s.ledger.RewriteField(fieldOf(kind), loc, name, replacement)
	if moved > 0 {
		if err := s.persist(); err != nil {
			return true, err
		}
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("name", name).
		Str("replacement", replacement).
		Int("products_moved", moved).
		Msg("taxonomy entry removed")
	return true, nil
}

// RenameTaxonomy renames oldName and carries the rename into products.
func (s *inventoryService) RenameTaxonomy(ctx context.Context, kind taxonomy.Kind, oldName, newName string, loc model.Location) (bool, error) {
	oldName, err := entryArgs(oldName, loc)
	if err != nil {
		return false, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false, model.ErrMissingEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	renamed, err := s.taxonomy.Rename(kind, oldName, newName, loc)
	if err != nil || !renamed {
		return false, err
	}

	if moved := s.ledger.RewriteField(fieldOf(kind), loc, oldName, newName); moved > 0 {
		if err := s.persist(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// ResetTaxonomy restores the built-in entries of kind at loc. Products keep
// whatever they carry.
func (s *inventoryService) ResetTaxonomy(ctx context.Context, kind taxonomy.Kind, loc model.Location) ([]string, error) {
	if _, err := model.ParseLocation(string(loc)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.taxonomy.Reset(kind, loc); err != nil {
		return nil, err
	}
	return s.taxonomy.List(kind, loc), nil
}

func entryArgs(name string, loc model.Location) (string, error) {
	if _, err := model.ParseLocation(string(loc)); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.ErrMissingEntry
	}
	return name, nil
}

func fieldOf(kind taxonomy.Kind) ledger.Field {
	if kind == taxonomy.KindZone {
		return ledger.FieldZone
	}
	return ledger.FieldCategory
}
