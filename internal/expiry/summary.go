package expiry

import (
	"time"

	"larder/internal/dates"
	"larder/internal/model"

	"github.com/rs/zerolog"
)

// Item is a product close to or past its expiry date.
type Item struct {
	ProductID       string         `json:"id"`
	Name            string         `json:"name"`
	ExpiryDate      string         `json:"expiry_date"`
	DaysUntilExpiry int            `json:"days_until_expiry"`
	Location        model.Location `json:"location"`
}

// LocationSummary lists the products stored at one location.
type LocationSummary struct {
	Count    int                 `json:"count"`
	Products []model.ProductView `json:"products"`
}

// Summary is the read-only inventory overview.
type Summary struct {
	TotalProducts int                                `json:"total_products"`
	Locations     map[model.Location]LocationSummary `json:"locations"`
	Expired       []Item                             `json:"expired"`
	ExpiringToday []Item                             `json:"expiring_today"`
	ExpiringSoon  []Item                             `json:"expiring_soon"`
	GeneratedAt   time.Time                          `json:"generated_at"`
}

// Summarize buckets products by location and by expiry status. Products
// expiring within thresholdDays (but not today) count as expiring soon.
// Unparseable expiry dates are logged and left out of the buckets.
func Summarize(products []model.Product, now time.Time, thresholdDays int, logger zerolog.Logger) Summary {
	summary := Summary{
		TotalProducts: len(products),
		Locations:     make(map[model.Location]LocationSummary, len(model.Locations)),
		Expired:       []Item{},
		ExpiringToday: []Item{},
		ExpiringSoon:  []Item{},
		GeneratedAt:   now,
	}
	for _, loc := range model.Locations {
		summary.Locations[loc] = LocationSummary{Products: []model.ProductView{}}
	}

	for _, p := range products {
		view := model.ProductView{ID: p.ID, Product: p}

		days, err := dates.DaysUntilString(p.ExpiryDate, now)
		if err == nil {
			view.DaysUntilExpiry = &days
		}

		ls := summary.Locations[p.Location]
		ls.Count++
		ls.Products = append(ls.Products, view)
		summary.Locations[p.Location] = ls

		if p.ExpiryDate == "" {
			continue
		}
		if err != nil {
			logger.Warn().
				Str("product_id", p.ID).
				Str("expiry_date", p.ExpiryDate).
				Msg("invalid expiry date, skipping")
			continue
		}

		item := Item{
			ProductID:       p.ID,
			Name:            p.Name,
			ExpiryDate:      p.ExpiryDate,
			DaysUntilExpiry: days,
			Location:        p.Location,
		}
		status, ok := Classify(days, thresholdDays)
		if !ok {
			continue
		}
		switch status {
		case StatusExpired:
			summary.Expired = append(summary.Expired, item)
		case StatusExpiresToday:
			summary.ExpiringToday = append(summary.ExpiringToday, item)
		case StatusExpiresSoon:
			summary.ExpiringSoon = append(summary.ExpiringSoon, item)
		}
	}

	return summary
}
