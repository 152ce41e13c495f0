package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Monetary values are stored and transported as integer cents everywhere in
// the system. Division by 100 happens only here, at display time.

// CentsToUSD converts integer cents to a decimal dollar amount
func CentsToUSD(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// FormatUSD renders integer cents as a dollar string with thousands
// separators, e.g. 375000 -> "$3,750.00".
func FormatUSD(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	dollars := cents / 100
	remainder := cents % 100

	whole := fmt.Sprintf("%d", dollars)
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	formatted := fmt.Sprintf("$%s.%02d", strings.Join(groups, ","), remainder)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatPercent renders a decimal percentage with one decimal place,
// e.g. 75 -> "75.0%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
