package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"larder/internal/backup"
	"larder/internal/classifier"
	"larder/internal/dates"
	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/ledger"
	"larder/internal/metrics"
	"larder/internal/model"
	"larder/internal/taxonomy"

	"github.com/rs/zerolog"
)

// Placeholder values for barcodes no provider knows.
const (
	ManualSource    = "Manual"
	NotFoundWarning = "Produit non trouvé dans les bases de données"
)

// Dependencies are the collaborators of the coordinator. Backup and Metrics
// are optional.
type Dependencies struct {
	Ledger     *ledger.Ledger
	Taxonomy   *taxonomy.Store
	Classifier *classifier.Classifier
	Lookup     ProductLookup
	Events     EventSink
	Backup     backup.Store
	Metrics    *metrics.Metrics
}

// Settings tunes expiry handling.
type Settings struct {
	SoonDays       int
	SummaryDays    int
	NotifyInterval time.Duration
}

// Option configures the coordinator.
type Option func(*inventoryService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *inventoryService) {
		s.now = now
	}
}

// WithSettings overrides the expiry thresholds.
func WithSettings(settings Settings) Option {
	return func(s *inventoryService) {
		if settings.SoonDays > 0 {
			s.soonDays = settings.SoonDays
		}
		if settings.SummaryDays > 0 {
			s.summaryDays = settings.SummaryDays
		}
		if settings.NotifyInterval > 0 {
			s.throttle = expiry.NewThrottle(settings.NotifyInterval)
		}
	}
}

// inventoryService implements InventoryService. mu serialises every ledger
// and taxonomy mutation as well as the sweep.
type inventoryService struct {
	mu sync.Mutex

	ledger     *ledger.Ledger
	taxonomy   *taxonomy.Store
	classifier *classifier.Classifier
	lookup     ProductLookup
	events     EventSink
	backup     backup.Store
	metrics    *metrics.Metrics

	throttle    *expiry.Throttle
	soonDays    int
	summaryDays int

	summary      *expiry.Summary
	summaryStale bool

	now    func() time.Time
	logger zerolog.Logger
}

// NewInventoryService creates the coordinator over an already loaded ledger
// and taxonomy store.
func NewInventoryService(deps Dependencies, logger zerolog.Logger, opts ...Option) InventoryService {
	s := &inventoryService{
		ledger:       deps.Ledger,
		taxonomy:     deps.Taxonomy,
		classifier:   deps.Classifier,
		lookup:       deps.Lookup,
		events:       deps.Events,
		backup:       deps.Backup,
		metrics:      deps.Metrics,
		throttle:     expiry.NewThrottle(expiry.DefaultNotifyInterval),
		soonDays:     expiry.DefaultSoonDays,
		summaryDays:  expiry.DefaultSummaryDays,
		summaryStale: true,
		now:          time.Now,
		logger:       logger.With().Str("service", "inventory").Logger(),
	}
	if s.classifier == nil {
		s.classifier = classifier.NewDefault()
	}
	for _, opt := range opts {
		opt(s)
	}

	s.refreshGauges()
	return s
}

// AddProduct validates req and stores it.
func (s *inventoryService) AddProduct(ctx context.Context, req model.NewProduct) (string, error) {
	p, err := s.prepare(req)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.insert(p)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// prepare validates and normalises the fields of req that do not depend on
// the taxonomy.
func (s *inventoryService) prepare(req model.NewProduct) (model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Product{}, model.ErrMissingName
	}

	loc, err := model.ParseLocation(string(req.Location))
	if err != nil {
		return model.Product{}, err
	}

	if strings.TrimSpace(req.ExpiryDate) == "" {
		return model.Product{}, model.ErrMissingExpiry
	}
	expiryDate, err := dates.Normalize(req.ExpiryDate)
	if err != nil {
		return model.Product{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return model.Product{}, model.ErrInvalidQuantity
	}

	return model.Product{
		Name:       name,
		ExpiryDate: expiryDate,
		Location:   loc,
		Quantity:   quantity,
		Category:   strings.TrimSpace(req.Category),
		Zone:       strings.TrimSpace(req.Zone),
		Barcode:    strings.TrimSpace(req.Barcode),
		Brand:      strings.TrimSpace(req.Brand),
		ImageURL:   strings.TrimSpace(req.ImageURL),
	}, nil
}

// insert fills taxonomy defaults, stores p and announces it. Callers hold mu.
func (s *inventoryService) insert(p model.Product) (model.Product, error) {
	if p.Category == "" {
		p.Category = taxonomy.Fallback
	}
	if p.Zone == "" {
		p.Zone = taxonomy.FallbackZone
		if zones := s.taxonomy.List(taxonomy.KindZone, p.Location); len(zones) > 0 {
			p.Zone = zones[0]
		}
	}

	stored := s.ledger.Insert(p)
	if err := s.persist(); err != nil {
		return model.Product{}, err
	}

	s.events.Emit(events.TopicProductAdded, events.ProductAdded{ProductID: stored.ID, Product: stored})

	s.logger.Info().
		Str("product_id", stored.ID).
		Str("name", stored.Name).
		Str("location", string(stored.Location)).
		Str("category", stored.Category).
		Msg("product added")
	return stored, nil
}

// ScanAndAdd resolves req.Barcode before taking the lock.
func (s *inventoryService) ScanAndAdd(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return nil, model.ErrMissingBarcode
	}

	p, err := s.prepare(model.NewProduct{
		Name:       "Produit " + barcode,
		ExpiryDate: req.ExpiryDate,
		Location:   req.Location,
		Quantity:   req.Quantity,
		Barcode:    barcode,
	})
	if err != nil {
		return nil, err
	}

	info, found := s.lookup.Lookup(ctx, barcode)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &model.ScanResult{Info: info}
	if found {
		p.Name = info.Name
		if info.Brand != "" {
			p.Name = info.Brand + " - " + info.Name
		}
		p.Brand = info.Brand
		p.ImageURL = info.ImageURL
		p.Category = s.classifier.Classify(info.CategoriesTags, s.taxonomy.List(taxonomy.KindCategory, p.Location), info.Name)
		result.Source = info.Source
	} else {
		p.Category = taxonomy.Fallback
		result.Source = ManualSource
		result.Placeholder = true
		result.Warning = NotFoundWarning
		s.logger.Warn().Str("barcode", barcode).Msg("barcode not found, adding placeholder product")
	}

	stored, err := s.insert(p)
	if err != nil {
		return nil, err
	}

	result.ProductID = stored.ID
	result.Name = stored.Name
	result.Category = stored.Category
	return result, nil
}

// LookupProduct only queries the providers.
func (s *inventoryService) LookupProduct(ctx context.Context, barcode string) (*model.ProductInfo, bool, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, false, model.ErrMissingBarcode
	}
	info, found := s.lookup.Lookup(ctx, barcode)
	return info, found, nil
}

// RemoveProduct deletes id and announces the removal.
func (s *inventoryService) RemoveProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(id)
}

// remove deletes id. Callers hold mu.
func (s *inventoryService) remove(id string) (bool, error) {
	p, ok := s.ledger.Delete(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return false, nil
	}
	s.throttle.Forget(id)

	if err := s.persist(); err != nil {
		return false, err
	}

	s.events.Emit(events.TopicProductRemoved, events.ProductRemoved{ProductID: id, Name: p.Name})
	s.logger.Info().Str("product_id", id).Str("name", p.Name).Msg("product removed")
	return true, nil
}

// UpdateQuantity sets the quantity of id.
func (s *inventoryService) UpdateQuantity(ctx context.Context, id string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.remove(id)
	}

	p, ok := s.ledger.Get(id)
	if !ok {
		return false, nil
	}
	p.Quantity = quantity
	s.ledger.Put(p)

	if err := s.persist(); err != nil {
		return false, err
	}

	s.logger.Debug().Str("product_id", id).Int("quantity", quantity).Msg("quantity updated")
	return true, nil
}

// UpdateProduct applies the non-nil fields of update to id.
func (s *inventoryService) UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.ledger.Get(id)
	if !ok {
		return false, nil
	}

	if update.Quantity != nil && *update.Quantity <= 0 {
		return s.remove(id)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return false, model.ErrMissingName
		}
		p.Name = name
	}
	if update.ExpiryDate != nil {
		expiryDate, err := dates.Normalize(*update.ExpiryDate)
		if err != nil {
			return false, err
		}
		p.ExpiryDate = expiryDate
	}
	if update.Quantity != nil {
		p.Quantity = *update.Quantity
	}
	if update.Category != nil {
		p.Category = strings.TrimSpace(*update.Category)
	}
	if update.Zone != nil {
		p.Zone = strings.TrimSpace(*update.Zone)
	}

	s.ledger.Put(p)
	if err := s.persist(); err != nil {
		return false, err
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return true, nil
}

// ListProducts returns views ordered by location, expiry date then name.
func (s *inventoryService) ListProducts(ctx context.Context, loc model.Location) ([]model.ProductView, error) {
	if loc != "" {
		if _, err := model.ParseLocation(string(loc)); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	products := s.ledger.All()
	s.mu.Unlock()

	now := s.now()
	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		if loc != "" && p.Location != loc {
			continue
		}
		views = append(views, view(p, now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Location != b.Location {
			return locationRank(a.Location) < locationRank(b.Location)
		}
		if a.ExpiryDate != b.ExpiryDate {
			return a.ExpiryDate < b.ExpiryDate
		}
		return a.Name < b.Name
	})
	return views, nil
}

// ExpiringWithin returns products whose expiry is at most days away.
func (s *inventoryService) ExpiringWithin(ctx context.Context, days int) []model.ProductView {
	s.mu.Lock()
	products := s.ledger.All()
	s.mu.Unlock()

	now := s.now()
	views := make([]model.ProductView, 0)
	for _, p := range products {
		v := view(p, now)
		if v.DaysUntilExpiry == nil || *v.DaysUntilExpiry > days {
			continue
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := *views[i].DaysUntilExpiry, *views[j].DaysUntilExpiry
		if a != b {
			return a < b
		}
		return views[i].Name < views[j].Name
	})
	return views
}

// History returns the recently added names.
func (s *inventoryService) History(ctx context.Context) []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.History()
}

// ClearLocation removes every product of loc and persists once.
func (s *inventoryService) ClearLocation(ctx context.Context, loc model.Location) (int, error) {
	if _, err := model.ParseLocation(string(loc)); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.ClearLocation(loc)
	for _, id := range removed {
		s.throttle.Forget(id)
	}
	if err := s.persist(); err != nil {
		return 0, err
	}

	s.logger.Info().Str("location", string(loc)).Int("count", len(removed)).Msg("location cleared")
	return len(removed), nil
}

// ResetAll empties the ledger and the history.
func (s *inventoryService) ResetAll(ctx context.Context) (model.ResetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.ledger.Reset()
	s.throttle.Reset()
	if err := s.persist(); err != nil {
		return model.ResetResult{}, err
	}

	s.logger.Info().
		Int("products", result.Products).
		Int("history", result.History).
		Msg("inventory reset")
	return result, nil
}

// DrainEvents hands the pending events to the caller.
func (s *inventoryService) DrainEvents(ctx context.Context) []events.Event {
	return s.events.Drain()
}

// persist saves the ledger and marks derived views stale. Callers hold mu.
func (s *inventoryService) persist() error {
	s.summaryStale = true
	s.refreshGauges()

	if err := s.ledger.Save(); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist ledger")
		return fmt.Errorf("failed to persist inventory: %w", err)
	}
	return nil
}

func (s *inventoryService) refreshGauges() {
	if s.metrics == nil {
		return
	}
	for loc, n := range s.ledger.CountByLocation() {
		s.metrics.SetProducts(string(loc), n)
	}
}

func view(p model.Product, now time.Time) model.ProductView {
	v := model.ProductView{ID: p.ID, Product: p}
	if days, err := dates.DaysUntilString(p.ExpiryDate, now); err == nil {
		v.DaysUntilExpiry = &days
	}
	return v
}

func locationRank(loc model.Location) int {
	for i, l := range model.Locations {
		if l == loc {
			return i
		}
	}
	return len(model.Locations)
}
