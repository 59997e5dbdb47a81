// Package expiry derives lifecycle signals from product expiry dates.
package expiry

// Status classifies a product by how close it is to its expiry date.
type Status string

const (
	StatusExpired      Status = "expired"
	StatusExpiresToday Status = "expires_today"
	StatusExpiresSoon  Status = "expires_soon"
)

// Default thresholds, in days.
const (
	DefaultSoonDays    = 3
	DefaultSummaryDays = 5
)

// Classify returns the status for a product expiring in days, or false when
// expiry is further away than soonDays.
func Classify(days, soonDays int) (Status, bool) {
	switch {
	case days < 0:
		return StatusExpired, true
	case days == 0:
		return StatusExpiresToday, true
	case days <= soonDays:
		return StatusExpiresSoon, true
	default:
		return "", false
	}
}
