package dates

import (
	"testing"
	"time"

	"larder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ISO date kept", input: "2026-10-15", expected: "2026-10-15"},
		{name: "ISO date-time kept", input: "2026-10-15T08:30:00", expected: "2026-10-15T08:30:00"},
		{name: "Day first with slashes", input: "03/04/2026", expected: "2026-04-03"},
		{name: "Day first with dashes", input: "03-04-2026", expected: "2026-04-03"},
		{name: "Day first with dots", input: "3.4.2026", expected: "2026-04-03"},
		{name: "Surrounding whitespace", input: "  2026-01-02 ", expected: "2026-01-02"},
		{name: "Year first with slashes", input: "2026/10/15", expected: "2026-10-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "32/13/2026"} {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			require.Error(t, err)

			var dateErr *model.DateError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, input, dateErr.Value)
			assert.Contains(t, err.Error(), "invalid date format")
		})
	}
}

func TestParseISO(t *testing.T) {
	got, err := ParseISO("2026-10-15T23:59:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseISO("15/10/2026")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 10, 15, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		expiry   string
		expected int
	}{
		{"2026-10-15", 0},
		{"2026-10-16", 1},
		{"2026-10-14", -1},
		{"2026-11-15", 31},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			days, err := DaysUntilString(tt.expiry, today)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}
}
