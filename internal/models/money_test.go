package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{99, "$0.99"},
		{100, "$1.00"},
		{125000, "$1,250.00"},
		{375000, "$3,750.00"},
		{100000000, "$1,000,000.00"},
		{-2550, "-$25.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.cents))
	}
}

// A campaign with $5,000 total budget and $1,250 remaining has spent $3,750,
// which is 75.0% of the budget. Formatting must agree with the raw cents.
func TestBudgetDisplayScenario(t *testing.T) {
	c := &Campaign{TotalBudgetCents: 500000, RemainingBudgetCents: 125000}

	assert.Equal(t, "$3,750.00", FormatUSD(c.SpentCents()))
	assert.Equal(t, "75.0%", FormatPercent(c.BudgetUsedPercent()))
}

func TestCentsToUSD(t *testing.T) {
	assert.Equal(t, "37.50", CentsToUSD(3750).StringFixed(2))
	assert.Equal(t, "0.01", CentsToUSD(1).StringFixed(2))
}

// TestProperty_FormatUSD_RoundTrip tests that the formatted string always
// carries exactly the cents it was given
func TestProperty_FormatUSD_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cents := rapid.Int64Range(0, 1_000_000_000).Draw(rt, "cents")
		s := FormatUSD(cents)

		var parsed int64
		var mult int64 = 1
		for i := len(s) - 1; i >= 0; i-- {
			ch := s[i]
			if ch < '0' || ch > '9' {
				continue
			}
			parsed += int64(ch-'0') * mult
			mult *= 10
		}

		if parsed != cents {
			t.Fatalf("PROPERTY VIOLATION: FormatUSD(%d) = %q, digits parse back to %d", cents, s, parsed)
		}
	})
}
