// Package events publishes inventory events to in-process subscribers and
// keeps them in a bounded outbox for hosts that poll.
package events

import "larder/internal/model"

// Event topics.
const (
	TopicProductAdded    = "inventory_manager_product_added"
	TopicProductRemoved  = "inventory_manager_product_removed"
	TopicProductExpiring = "inventory_manager_product_expiring"
)

// ProductAdded carries the full record of a new product.
type ProductAdded struct {
	ProductID string `json:"product_id"`
	model.Product
}

// ProductRemoved identifies a removed product.
type ProductRemoved struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

// ProductExpiring reports a product close to or past its expiry date.
type ProductExpiring struct {
	ProductID        string         `json:"product_id"`
	Name             string         `json:"name"`
	ExpiryDate       string         `json:"expiry_date"`
	DaysUntilExpiry  int            `json:"days_until_expiry"`
	Location         model.Location `json:"location"`
	NotificationType string         `json:"notification_type"`
}
