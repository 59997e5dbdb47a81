package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"larder/internal/model"
)

// Kind selects which taxonomy an operation applies to.
type Kind string

const (
	KindCategory Kind = "category"
	KindZone     Kind = "zone"
)

// Lists holds one ordered list of names per location.
type Lists map[model.Location][]string

// Get returns a copy of the list for loc.
func (l Lists) Get(loc model.Location) []string {
	return append([]string(nil), l[loc]...)
}

// Clone deep-copies the lists.
func (l Lists) Clone() Lists {
	out := make(Lists, len(l))
	for loc, names := range l {
		out[loc] = append([]string(nil), names...)
	}
	return out
}

// Count returns the total number of entries across locations.
func (l Lists) Count() int {
	n := 0
	for _, names := range l {
		n += len(names)
	}
	return n
}

// Source is the persisted form of one taxonomy. Older installations stored a
// single flat list shared by every location; newer ones store a map keyed by
// location. Exactly one of the two shapes is set when Present is true.
type Source struct {
	Present     bool
	Legacy      []string
	PerLocation map[string][]string
}

// LegacySource wraps a flat list.
func LegacySource(names []string) Source {
	return Source{Present: true, Legacy: names}
}

// PerLocationSource wraps already migrated lists.
func PerLocationSource(lists Lists) Source {
	m := make(map[string][]string, len(lists))
	for loc, names := range lists {
		m[string(loc)] = append([]string(nil), names...)
	}
	return Source{Present: true, PerLocation: m}
}

// IsLegacy reports whether the source still uses the flat list shape.
func (s Source) IsLegacy() bool {
	return s.Present && s.PerLocation == nil
}

// UnmarshalJSON accepts either a JSON array or a JSON object.
func (s *Source) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = Source{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return fmt.Errorf("failed to decode legacy list: %w", err)
		}
		*s = LegacySource(names)
		return nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		var m map[string][]string
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return fmt.Errorf("failed to decode per-location map: %w", err)
		}
		if m == nil {
			m = map[string][]string{}
		}
		*s = Source{Present: true, PerLocation: m}
		return nil
	default:
		return fmt.Errorf("taxonomy must be a list or an object, got %s", string(trimmed))
	}
}

// MarshalJSON always writes the per-location shape for migrated sources.
func (s Source) MarshalJSON() ([]byte, error) {
	switch {
	case !s.Present:
		return []byte("null"), nil
	case s.PerLocation == nil:
		return json.Marshal(s.Legacy)
	default:
		return json.Marshal(s.PerLocation)
	}
}

// Migrate converts any persisted shape into per-location lists. A legacy list
// becomes the freezer list; fridge and pantry receive their own defaults.
// Missing, unknown or empty locations are filled from the defaults so that
// every location keeps at least one entry. Migrate is idempotent.
func Migrate(kind Kind, src Source) Lists {
	lists := DefaultLists(kind)
	if !src.Present {
		return lists
	}

	if src.PerLocation == nil {
		if names := dedupe(src.Legacy); len(names) > 0 {
			lists[model.LocationFreezer] = names
		}
		return lists
	}

	for _, loc := range model.Locations {
		if names := dedupe(src.PerLocation[string(loc)]); len(names) > 0 {
			lists[loc] = names
		}
	}
	return lists
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
