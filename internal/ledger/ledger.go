// Package ledger holds the authoritative product records and the recently
// added names used for re-entry.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"larder/internal/model"
	"larder/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryLimit caps the number of remembered product names.
const HistoryLimit = 100

// Field names a taxonomy-bound product field.
type Field int

const (
	FieldCategory Field = iota
	FieldZone
)

// document is the persisted layout.
type document struct {
	Products       map[string]model.Product `json:"products"`
	ProductHistory []model.HistoryEntry     `json:"product_history"`
	LastUpdated    string                   `json:"last_updated,omitempty"`
}

// Ledger maps product ids to records. It is not safe for concurrent use;
// callers serialise access.
type Ledger struct {
	products map[string]model.Product
	history  []model.HistoryEntry
	file     *storage.JSONFile
	now      func() time.Time
	newID    func() string
	logger   zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides product id generation.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New creates an empty ledger persisted to file.
func New(file *storage.JSONFile, logger zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		products: make(map[string]model.Product),
		file:     file,
		now:      time.Now,
		newID:    shortID,
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Load replaces the in-memory state with the persisted document. A missing
// file leaves the ledger empty.
func (l *Ledger) Load() error {
	var doc document
	found, err := l.file.Load(&doc)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if !found {
		l.logger.Info().Msg("no ledger file yet, starting empty")
		return nil
	}

	l.ReplaceProducts(doc.Products)
	l.ReplaceHistory(doc.ProductHistory)

	l.logger.Info().
		Int("products", len(l.products)).
		Int("history", len(l.history)).
		Msg("ledger loaded")
	return nil
}

// Save writes the complete state.
func (l *Ledger) Save() error {
	doc := document{
		Products:       l.products,
		ProductHistory: l.history,
		LastUpdated:    l.now().Format(time.RFC3339),
	}
	if doc.ProductHistory == nil {
		doc.ProductHistory = []model.HistoryEntry{}
	}
	if err := l.file.Save(doc); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// Insert stores p under a fresh id, stamps its added date and records it in
// the history. The stored record is returned.
func (l *Ledger) Insert(p model.Product) model.Product {
	p.ID = l.uniqueID()
	p.AddedDate = l.now().Format(time.RFC3339)
	l.products[p.ID] = p
	l.remember(p)
	return p
}

func (l *Ledger) uniqueID() string {
	for {
		id := l.newID()
		if _, taken := l.products[id]; !taken {
			return id
		}
		l.logger.Debug().Str("product_id", id).Msg("product id collision, regenerating")
	}
}

// remember moves p's name to the front of the history.
func (l *Ledger) remember(p model.Product) {
	entry := model.HistoryEntry{
		Name:      p.Name,
		Category:  p.Category,
		Zone:      p.Zone,
		Location:  p.Location,
		AddedDate: p.AddedDate,
	}

	history := make([]model.HistoryEntry, 0, len(l.history)+1)
	history = append(history, entry)
	for _, h := range l.history {
		if !strings.EqualFold(h.Name, p.Name) {
			history = append(history, h)
		}
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	l.history = history
}

// Get returns the product stored under id.
func (l *Ledger) Get(id string) (model.Product, bool) {
	p, ok := l.products[id]
	return p, ok
}

// Put overwrites an existing product. It reports false for unknown ids.
func (l *Ledger) Put(p model.Product) bool {
	if _, ok := l.products[p.ID]; !ok {
		return false
	}
	l.products[p.ID] = p
	return true
}

// Delete removes the product stored under id and returns it.
func (l *Ledger) Delete(id string) (model.Product, bool) {
	p, ok := l.products[id]
	if ok {
		delete(l.products, id)
	}
	return p, ok
}

// All returns every product ordered by id.
func (l *Ledger) All() []model.Product {
	out := make([]model.Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByLocation returns the products stored at loc ordered by id.
func (l *Ledger) ByLocation(loc model.Location) []model.Product {
	var out []model.Product
	for _, p := range l.All() {
		if p.Location == loc {
			out = append(out, p)
		}
	}
	return out
}

// CountByLocation returns the number of products per location, including
// empty locations.
func (l *Ledger) CountByLocation() map[model.Location]int {
	counts := make(map[model.Location]int, len(model.Locations))
	for _, loc := range model.Locations {
		counts[loc] = 0
	}
	for _, p := range l.products {
		counts[p.Location]++
	}
	return counts
}

// Len returns the number of products.
func (l *Ledger) Len() int {
	return len(l.products)
}

// ClearLocation removes every product at loc and returns the removed ids.
func (l *Ledger) ClearLocation(loc model.Location) []string {
	var removed []string
	for id, p := range l.products {
		if p.Location == loc {
			delete(l.products, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Reset empties the ledger and the history.
func (l *Ledger) Reset() model.ResetResult {
	result := model.ResetResult{
		Products: len(l.products),
		History:  len(l.history),
	}
	l.products = make(map[string]model.Product)
	l.history = nil
	return result
}

// RewriteField replaces from with to in field for every product at loc and
// returns how many products changed.
func (l *Ledger) RewriteField(field Field, loc model.Location, from, to string) int {
	changed := 0
	for id, p := range l.products {
		if p.Location != loc {
			continue
		}
		switch field {
		case FieldCategory:
			if p.Category != from {
				continue
			}
			p.Category = to
		case FieldZone:
			if p.Zone != from {
				continue
			}
			p.Zone = to
		default:
			continue
		}
		l.products[id] = p
		changed++
	}
	return changed
}

// ReplaceProducts installs products as the whole ledger. Records with a
// non-positive quantity are dropped.
func (l *Ledger) ReplaceProducts(products map[string]model.Product) int {
	next := make(map[string]model.Product, len(products))
	for id, p := range products {
		if p.Quantity <= 0 {
			l.logger.Warn().
				Str("product_id", id).
				Int("quantity", p.Quantity).
				Msg("dropping product with non-positive quantity")
			continue
		}
		p.ID = id
		next[id] = p
	}
	l.products = next
	return len(next)
}

// History returns a copy of the history, most recent first.
func (l *Ledger) History() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.history))
	copy(out, l.history)
	return out
}

// ReplaceHistory installs history as-is, truncated to HistoryLimit.
func (l *Ledger) ReplaceHistory(history []model.HistoryEntry) int {
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	l.history = make([]model.HistoryEntry, len(history))
	copy(l.history, history)
	return len(l.history)
}

// Products returns a copy of the id-keyed product map.
func (l *Ledger) Products() map[string]model.Product {
	out := make(map[string]model.Product, len(l.products))
	for id, p := range l.products {
		out[id] = p
	}
	return out
}

// NewID returns an id not used by any stored product.
func (l *Ledger) NewID() string {
	return l.uniqueID()
}
