// Package dates parses and normalises expiry dates.
package dates

import (
	"strings"
	"time"

	"larder/internal/model"

	"github.com/araddon/dateparse"
)

// ISOLayout is the layout expiry dates are stored in.
const ISOLayout = "2006-01-02"

// isoLayouts are accepted as-is on input and when reading stored dates.
var isoLayouts = []string{
	ISOLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	time.RFC3339,
	time.RFC3339Nano,
}

// dayFirstLayouts are tried before the generic parser so that 03/04/2026 is
// read as the 3rd of April.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
}

// ParseISO parses a stored expiry date. Only the calendar date is kept.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Day(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Normalize validates a user-supplied expiry date. ISO input is returned
// unchanged; every other accepted format is rewritten as YYYY-MM-DD.
func Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &model.DateError{Value: input}
	}

	if _, err := ParseISO(s); err == nil {
		return s, nil
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISOLayout), nil
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", &model.DateError{Value: input}
	}
	return t.Format(ISOLayout), nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of whole calendar days from today to expiry.
func DaysUntil(expiry, today time.Time) int {
	return int(Day(expiry).Sub(Day(today)).Hours() / 24)
}

// DaysUntilString parses a stored expiry date and returns the days remaining.
func DaysUntilString(expiry string, today time.Time) (int, error) {
	t, err := ParseISO(expiry)
	if err != nil {
		return 0, err
	}
	return DaysUntil(t, today), nil
}
