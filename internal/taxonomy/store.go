// Package taxonomy manages the per-location category and zone lists.
package taxonomy

import (
	"fmt"
	"slices"
	"sync"

	"larder/internal/model"
	"larder/internal/storage"

	"github.com/rs/zerolog"
)

// options is the persisted document: one Source per kind.
type options struct {
	Categories Source `json:"categories"`
	Zones      Source `json:"zones"`
}

// Store owns the category and zone lists of every location.
type Store struct {
	mu         sync.RWMutex
	categories Lists
	zones      Lists
	file       *storage.JSONFile
	logger     zerolog.Logger
}

// NewStore loads the persisted taxonomy, migrating legacy or missing data to
// the per-location form and writing the migrated form back.
func NewStore(file *storage.JSONFile, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		file:   file,
		logger: logger.With().Str("component", "taxonomy").Logger(),
	}

	var opts options
	if _, err := file.Load(&opts); err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	s.categories = Migrate(KindCategory, opts.Categories)
	s.zones = Migrate(KindZone, opts.Zones)

	needsSave := !opts.Categories.Present || !opts.Zones.Present ||
		opts.Categories.IsLegacy() || opts.Zones.IsLegacy()
	if opts.Categories.IsLegacy() || opts.Zones.IsLegacy() {
		s.logger.Info().Msg("migrated taxonomy from list to per-location format")
	}
	if needsSave {
		if err := s.save(s.categories, s.zones); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// List returns the ordered names of kind for loc.
func (s *Store) List(kind Kind, loc model.Location) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists(kind).Get(loc)
}

// Snapshot returns copies of both taxonomies.
func (s *Store) Snapshot() (categories, zones Lists) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.Clone(), s.zones.Clone()
}

// Add appends name to the list of loc. It reports false when name was
// already present.
func (s *Store) Add(kind Kind, name string, loc model.Location) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.lists(kind)
	if slices.Contains(current[loc], name) {
		return false, nil
	}

	next := current.Clone()
	next[loc] = append(next[loc], name)
	if err := s.commit(kind, next); err != nil {
		return false, err
	}

	s.logger.Info().Str("kind", string(kind)).Str("name", name).Str("location", string(loc)).Msg("taxonomy entry added")
	return true, nil
}

// Remove deletes name from the list of loc and returns the name products
// carrying it must be moved to. It reports false when name was absent.
func (s *Store) Remove(kind Kind, name string, loc model.Location) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == KindCategory && name == Fallback {
		s.logger.Warn().Str("location", string(loc)).Msg("refusing to remove fallback category")
		return "", false, &model.ProtectedEntryError{Name: name, Location: loc}
	}

	current := s.lists(kind)
	if len(current[loc]) <= 1 {
		s.logger.Warn().Str("kind", string(kind)).Str("location", string(loc)).Msg("refusing to remove last taxonomy entry")
		return "", false, &model.LastEntryError{Kind: string(kind), Location: loc}
	}

	idx := slices.Index(current[loc], name)
	if idx < 0 {
		return "", false, nil
	}

	next := current.Clone()
	next[loc] = slices.Delete(next[loc], idx, idx+1)
	if err := s.commit(kind, next); err != nil {
		return "", false, err
	}

	replacement := Fallback
	if kind == KindZone {
		replacement = next[loc][0]
	}

	s.logger.Info().Str("kind", string(kind)).Str("name", name).Str("location", string(loc)).Msg("taxonomy entry removed")
	return replacement, true, nil
}

// Rename replaces oldName by newName in place. When newName already exists
// the old entry is dropped instead of producing a duplicate. It reports false
// when oldName was absent.
func (s *Store) Rename(kind Kind, oldName, newName string, loc model.Location) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.lists(kind)
	idx := slices.Index(current[loc], oldName)
	if idx < 0 || oldName == newName {
		return false, nil
	}

	next := current.Clone()
	if slices.Contains(next[loc], newName) {
		next[loc] = slices.Delete(next[loc], idx, idx+1)
	} else {
		next[loc][idx] = newName
	}
	if err := s.commit(kind, next); err != nil {
		return false, err
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("old_name", oldName).
		Str("new_name", newName).
		Str("location", string(loc)).
		Msg("taxonomy entry renamed")
	return true, nil
}

// Reset restores the built-in list of kind for loc.
func (s *Store) Reset(kind Kind, loc model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.lists(kind).Clone()
	next[loc] = Defaults(kind, loc)
	if err := s.commit(kind, next); err != nil {
		return err
	}

	s.logger.Info().Str("kind", string(kind)).Str("location", string(loc)).Msg("taxonomy reset to defaults")
	return nil
}

// Replace swaps the whole taxonomy of kind for the migrated form of src and
// returns the number of entries now held.
func (s *Store) Replace(kind Kind, src Source) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Migrate(kind, src)
	if err := s.commit(kind, next); err != nil {
		return 0, err
	}
	return next.Count(), nil
}

func (s *Store) lists(kind Kind) Lists {
	if kind == KindZone {
		return s.zones
	}
	return s.categories
}

// commit persists next as the new lists of kind and installs it on success.
func (s *Store) commit(kind Kind, next Lists) error {
	categories, zones := s.categories, s.zones
	if kind == KindZone {
		zones = next
	} else {
		categories = next
	}

	if err := s.save(categories, zones); err != nil {
		return err
	}

	s.categories, s.zones = categories, zones
	return nil
}

func (s *Store) save(categories, zones Lists) error {
	opts := options{
		Categories: PerLocationSource(categories),
		Zones:      PerLocationSource(zones),
	}
	if err := s.file.Save(opts); err != nil {
		s.logger.Error().Err(err).Msg("failed to save taxonomy")
		return fmt.Errorf("failed to save taxonomy: %w", err)
	}
	return nil
}
