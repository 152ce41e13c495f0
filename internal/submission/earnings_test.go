package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCalculateEarnings(t *testing.T) {
	tests := []struct {
		name      string
		views     int64
		cpm       int64
		maxPayout int64
		want      int64
	}{
		{"zero views", 0, 500, 10000, 0},
		{"negative views", -10, 500, 10000, 0},
		{"zero cpm", 1000, 0, 10000, 0},
		{"exact thousand", 1000, 500, 10000, 500},
		{"floors fractional cents", 1500, 333, 100000, 499},
		{"capped at max payout", 1000000, 500, 10000, 10000},
		{"just under cap", 10000, 500, 10000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateEarnings(tt.views, tt.cpm, tt.maxPayout))
		})
	}
}

// TestProperty_CalculateEarnings_Bounds tests that earnings are never
// negative and never exceed the per-submission cap
func TestProperty_CalculateEarnings_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		views := rapid.Int64Range(-1000, 100000000).Draw(rt, "views")
		cpm := rapid.Int64Range(0, 100000).Draw(rt, "cpm")
		maxPayout := rapid.Int64Range(1, 10000000).Draw(rt, "maxPayout")

		earnings := CalculateEarnings(views, cpm, maxPayout)

		if earnings < 0 {
			t.Fatalf("PROPERTY VIOLATION: negative earnings %d", earnings)
		}
		if earnings > maxPayout {
			t.Fatalf("PROPERTY VIOLATION: earnings %d exceed cap %d", earnings, maxPayout)
		}
	})
}

// TestProperty_CalculateEarnings_Monotonic tests that more views never earn
// less, all else equal
func TestProperty_CalculateEarnings_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		views := rapid.Int64Range(0, 10000000).Draw(rt, "views")
		extra := rapid.Int64Range(0, 10000000).Draw(rt, "extra")
		cpm := rapid.Int64Range(1, 10000).Draw(rt, "cpm")
		maxPayout := rapid.Int64Range(1, 10000000).Draw(rt, "maxPayout")

		lower := CalculateEarnings(views, cpm, maxPayout)
		higher := CalculateEarnings(views+extra, cpm, maxPayout)

		if higher < lower {
			t.Fatalf("PROPERTY VIOLATION: %d views earn %d but %d views earn %d",
				views, lower, views+extra, higher)
		}
	})
}
