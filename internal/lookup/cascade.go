package lookup

import (
	"context"
	"errors"
	"slices"
	"time"

	"larder/internal/metrics"
	"larder/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single provider or cache call.
const DefaultTimeout = 5 * time.Second

// Cascade queries providers in order and returns the first hit.
type Cascade struct {
	providers []Provider
	timeout   time.Duration
	cache     Cache
	metrics   *metrics.Metrics
	group     singleflight.Group
	logger    zerolog.Logger
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithCache consults cache before any provider and stores hits in it.
func WithCache(cache Cache) Option {
	return func(c *Cascade) {
		c.cache = cache
	}
}

// WithMetrics records provider outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cascade) {
		c.metrics = m
	}
}

// NewCascade creates a cascade over providers, in priority order.
func NewCascade(providers []Provider, timeout time.Duration, logger zerolog.Logger, opts ...Option) *Cascade {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Cascade{
		providers: providers,
		timeout:   timeout,
		logger:    logger.With().Str("component", "lookup-cascade").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves barcode. A false result means no provider knew the
// barcode; provider failures are logged and never returned. A caller whose
// context ends first gets a miss while the shared lookup carries on.
func (c *Cascade) Lookup(ctx context.Context, barcode string) (*model.ProductInfo, bool) {
	// Shared callers must not lose the result because the first one went away.
	flightCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(barcode, func() (interface{}, error) {
		return c.resolve(flightCtx, barcode), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		c.logger.Warn().Err(ctx.Err()).Str("barcode", barcode).Msg("lookup abandoned by caller")
		return nil, false
	}
	if res.Shared {
		c.logger.Debug().Str("barcode", barcode).Msg("joined in-flight lookup")
	}

	info, _ := res.Val.(*model.ProductInfo)
	if info == nil {
		return nil, false
	}
	return cloneInfo(info), true
}

func (c *Cascade) resolve(ctx context.Context, barcode string) *model.ProductInfo {
	if info := c.fromCache(ctx, barcode); info != nil {
		return info
	}

	c.logger.Info().Str("barcode", barcode).Int("providers", len(c.providers)).Msg("starting lookup cascade")

	for _, p := range c.providers {
		info, err := c.fetch(ctx, p, barcode)
		if err != nil || info == nil {
			continue
		}

		info.Barcode = barcode
		info.Source = p.Name()
		c.logger.Info().
			Str("barcode", barcode).
			Str("source", info.Source).
			Str("name", info.Name).
			Msg("product found")

		c.toCache(ctx, info)
		return info
	}

	c.logger.Warn().Str("barcode", barcode).Msg("product not found in any database")
	return nil
}

func (c *Cascade) fetch(ctx context.Context, p Provider, barcode string) (*model.ProductInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	info, err := p.Fetch(ctx, barcode)
	elapsed := time.Since(start)

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		c.metrics.ObserveLookup(p.Name(), metrics.OutcomeTimeout, elapsed)
		c.logger.Warn().
			Str("provider", p.Name()).
			Str("barcode", barcode).
			Dur("timeout", c.timeout).
			Msg("provider request timed out")
	case err != nil:
		c.metrics.ObserveLookup(p.Name(), metrics.OutcomeError, elapsed)
		c.logger.Warn().
			Err(err).
			Str("provider", p.Name()).
			Str("barcode", barcode).
			Msg("provider request failed")
	case info == nil:
		c.metrics.ObserveLookup(p.Name(), metrics.OutcomeMiss, elapsed)
		c.logger.Debug().
			Str("provider", p.Name()).
			Str("barcode", barcode).
			Msg("product not found, trying next provider")
	default:
		c.metrics.ObserveLookup(p.Name(), metrics.OutcomeHit, elapsed)
	}

	return info, err
}

func (c *Cascade) fromCache(ctx context.Context, barcode string) *model.ProductInfo {
	if c.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.cache.Get(ctx, barcode)
	if err != nil {
		c.logger.Warn().Err(err).Str("barcode", barcode).Msg("lookup cache read failed")
		return nil
	}
	if info == nil {
		return nil
	}

	c.metrics.ObserveLookup("cache", metrics.OutcomeCacheHit, 0)
	c.logger.Debug().Str("barcode", barcode).Str("source", info.Source).Msg("lookup served from cache")
	return info
}

func (c *Cascade) toCache(ctx context.Context, info *model.ProductInfo) {
	if c.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.cache.Put(ctx, info); err != nil {
		c.logger.Warn().Err(err).Str("barcode", info.Barcode).Msg("failed to cache lookup result")
	}
}

func cloneInfo(info *model.ProductInfo) *model.ProductInfo {
	out := *info
	out.CategoriesTags = slices.Clone(info.CategoriesTags)
	return &out
}
