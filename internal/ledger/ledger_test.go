package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"larder/internal/model"
	"larder/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory_data.json")
	file := storage.NewJSONFile(path, zerolog.Nop())
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(file, zerolog.Nop(), opts...), path
}

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i]
		i++
		return id
	}
}

func milk() model.Product {
	return model.Product{
		Name:       "Lait",
		ExpiryDate: "2026-10-20",
		Location:   model.LocationFridge,
		Quantity:   2,
		Category:   "Produits laitiers",
		Zone:       "Zone 1",
	}
}

func TestInsert(t *testing.T) {
	l, _ := newTestLedger(t)

	p := l.Insert(milk())

	assert.Len(t, p.ID, 8)
	assert.Equal(t, fixedNow.Format(time.RFC3339), p.AddedDate)

	got, ok := l.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)

	history := l.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.HistoryEntry{
		Name:      "Lait",
		Category:  "Produits laitiers",
		Zone:      "Zone 1",
		Location:  model.LocationFridge,
		AddedDate: p.AddedDate,
	}, history[0])
}

func TestInsert_RetriesOnCollision(t *testing.T) {
	l, _ := newTestLedger(t, WithIDGenerator(sequentialIDs("aaaa1111", "aaaa1111", "bbbb2222")))

	first := l.Insert(milk())
	second := l.Insert(milk())

	assert.Equal(t, "aaaa1111", first.ID)
	assert.Equal(t, "bbbb2222", second.ID)
	assert.Equal(t, 2, l.Len())
}

func TestHistory_MostRecentFirstAndDeduplicated(t *testing.T) {
	l, _ := newTestLedger(t)

	for _, name := range []string{"Lait", "Beurre", "lait", "Oeufs"} {
		p := milk()
		p.Name = name
		l.Insert(p)
	}

	var names []string
	for _, h := range l.History() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Oeufs", "lait", "Beurre"}, names)
}

func TestHistory_Capped(t *testing.T) {
	l, _ := newTestLedger(t)

	for i := 0; i < HistoryLimit+20; i++ {
		p := milk()
		p.Name = fmt.Sprintf("Produit %d", i)
		l.Insert(p)
	}

	history := l.History()
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, fmt.Sprintf("Produit %d", HistoryLimit+19), history[0].Name)
	assert.Equal(t, "Produit 20", history[HistoryLimit-1].Name)
}

func TestPutAndDelete(t *testing.T) {
	l, _ := newTestLedger(t)
	p := l.Insert(milk())

	p.Quantity = 5
	assert.True(t, l.Put(p))
	got, _ := l.Get(p.ID)
	assert.Equal(t, 5, got.Quantity)

	assert.False(t, l.Put(model.Product{ID: "unknown"}))

	removed, ok := l.Delete(p.ID)
	assert.True(t, ok)
	assert.Equal(t, "Lait", removed.Name)

	_, ok = l.Delete(p.ID)
	assert.False(t, ok)
	assert.Len(t, l.History(), 1, "history survives removal")
}

func TestClearLocationAndCounts(t *testing.T) {
	l, _ := newTestLedger(t, WithIDGenerator(sequentialIDs("00000001", "00000002", "00000003")))

	l.Insert(milk())
	frozen := milk()
	frozen.Location = model.LocationFreezer
	l.Insert(frozen)
	l.Insert(milk())

	assert.Equal(t, map[model.Location]int{
		model.LocationFreezer: 1,
		model.LocationFridge:  2,
		model.LocationPantry:  0,
	}, l.CountByLocation())

	removed := l.ClearLocation(model.LocationFridge)
	assert.Equal(t, []string{"00000001", "00000003"}, removed)
	assert.Equal(t, 1, l.Len())
	assert.Empty(t, l.ByLocation(model.LocationFridge))
	assert.Len(t, l.ByLocation(model.LocationFreezer), 1)
}

func TestReset(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Insert(milk())
	p := milk()
	p.Name = "Yaourt"
	l.Insert(p)

	result := l.Reset()

	assert.Equal(t, model.ResetResult{Products: 2, History: 2}, result)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.History())
}

func TestRewriteField(t *testing.T) {
	l, _ := newTestLedger(t)

	a := l.Insert(milk())
	b := milk()
	b.Category = "Fromages"
	b = l.Insert(b)
	c := milk()
	c.Location = model.LocationFreezer
	c.Category = "Produits laitiers"
	c = l.Insert(c)

	changed := l.RewriteField(FieldCategory, model.LocationFridge, "Produits laitiers", "Autre")
	assert.Equal(t, 1, changed)

	got, _ := l.Get(a.ID)
	assert.Equal(t, "Autre", got.Category)
	got, _ = l.Get(b.ID)
	assert.Equal(t, "Fromages", got.Category)
	got, _ = l.Get(c.ID)
	assert.Equal(t, "Produits laitiers", got.Category, "other locations are untouched")

	changed = l.RewriteField(FieldZone, model.LocationFridge, "Zone 1", "Porte")
	assert.Equal(t, 2, changed)
	got, _ = l.Get(b.ID)
	assert.Equal(t, "Porte", got.Zone)
}

func TestReplaceProducts_DropsEmptyQuantities(t *testing.T) {
	l, _ := newTestLedger(t)

	n := l.ReplaceProducts(map[string]model.Product{
		"keep0001": {Name: "Keep", Quantity: 1, Location: model.LocationPantry},
		"drop0001": {Name: "Drop", Quantity: 0, Location: model.LocationPantry},
	})

	assert.Equal(t, 1, n)
	p, ok := l.Get("keep0001")
	require.True(t, ok)
	assert.Equal(t, "keep0001", p.ID)
	_, ok = l.Get("drop0001")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	l, path := newTestLedger(t)
	p := l.Insert(milk())
	require.NoError(t, l.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"products"`)
	assert.Contains(t, string(raw), `"product_history"`)
	assert.Contains(t, string(raw), `"last_updated": "2026-10-15T09:30:00Z"`)
	assert.NotContains(t, string(raw), `"id"`)

	reloaded := New(storage.NewJSONFile(path, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, l.History(), reloaded.History())
}

func TestLoad_MissingFile(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.Load())
	assert.Equal(t, 0, l.Len())
}

func TestLoad_InvalidFile(t *testing.T) {
	l, path := newTestLedger(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"products": [1, 2]}`), 0o644))

	err := l.Load()
	assert.ErrorContains(t, err, "failed to load ledger")
}

func TestProductsReturnsCopy(t *testing.T) {
	l, _ := newTestLedger(t)
	p := l.Insert(milk())

	products := l.Products()
	delete(products, p.ID)

	assert.Equal(t, 1, l.Len())
}
