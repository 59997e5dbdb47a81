package service

import (
	"context"

	"larder/internal/dates"
	"larder/internal/events"
	"larder/internal/expiry"
)

// Sweep notifies about products close to or past their expiry date, at most
// once per product per notification interval, and recomputes the summary.
func (s *inventoryService) Sweep(ctx context.Context) (expiry.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	products := s.ledger.All()
	notified := 0

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return expiry.Summary{}, err
		}
		if p.ExpiryDate == "" {
			continue
		}

		days, err := dates.DaysUntilString(p.ExpiryDate, now)
		if err != nil {
			s.logger.Warn().
				Str("product_id", p.ID).
				Str("expiry_date", p.ExpiryDate).
				Msg("invalid expiry date, skipping")
			continue
		}

		status, ok := expiry.Classify(days, s.soonDays)
		if !ok || !s.throttle.Allow(p.ID, now) {
			continue
		}

		s.events.Emit(events.TopicProductExpiring, events.ProductExpiring{
			ProductID:        p.ID,
			Name:             p.Name,
			ExpiryDate:       p.ExpiryDate,
			DaysUntilExpiry:  days,
			Location:         p.Location,
			NotificationType: string(status),
		})
		s.metrics.IncExpiryNotification(string(status))
		notified++
	}

	summary := expiry.Summarize(products, now, s.summaryDays, s.logger)
	s.summary = &summary
	s.summaryStale = false
	s.metrics.IncSweep()

	s.logger.Info().
		Int("products", len(products)).
		Int("notified", notified).
		Int("expired", len(summary.Expired)).
		Int("expiring_today", len(summary.ExpiringToday)).
		Int("expiring_soon", len(summary.ExpiringSoon)).
		Msg("expiry sweep completed")
	return summary, nil
}

// Summary returns the last summary, recomputed when the ledger changed or
// the day rolled over since it was built.
func (s *inventoryService) Summary(ctx context.Context) expiry.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.summary == nil || s.summaryStale || !dates.Day(s.summary.GeneratedAt).Equal(dates.Day(now)) {
		summary := expiry.Summarize(s.ledger.All(), now, s.summaryDays, s.logger)
		s.summary = &summary
		s.summaryStale = false
	}
	return *s.summary
}
