package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetUsedPercent(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		remaining int64
		want      string
	}{
		{"zero total budget", 0, 0, "0"},
		{"untouched budget", 500000, 500000, "0"},
		{"three quarters spent", 500000, 125000, "75"},
		{"fully spent", 100000, 0, "100"},
		{"rounds to one decimal", 300000, 200000, "33.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{TotalBudgetCents: tt.total, RemainingBudgetCents: tt.remaining}
			assert.Equal(t, tt.want, c.BudgetUsedPercent().String())
		})
	}
}

func TestSpentCents(t *testing.T) {
	c := &Campaign{TotalBudgetCents: 500000, RemainingBudgetCents: 125000}
	assert.Equal(t, int64(375000), c.SpentCents())
}

func TestIsValidCategory(t *testing.T) {
	for _, cat := range Categories {
		assert.True(t, IsValidCategory(cat), cat)
	}
	assert.False(t, IsValidCategory("all"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("Fashion"))
}
