package campaign

import (
	"sort"
	"strings"

	"github.com/igotstrelkov/clippin/internal/models"
)

// SortKey selects the comparator applied to a marketplace listing
type SortKey string

const (
	SortNewest SortKey = "newest" // by creation time, descending
	SortBudget SortKey = "budget" // by total budget, descending
	SortCPM    SortKey = "cpm"    // by CPM rate, descending
)

// CategoryAll matches every category in a filter
const CategoryAll = "all"

// ParseSortKey normalises a sort parameter, defaulting to newest
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortBudget:
		return SortBudget
	case SortCPM:
		return SortCPM
	default:
		return SortNewest
	}
}

// FilterSort derives a render-ready campaign list from an unordered one. A
// campaign is kept when its category equals the selector (or the selector is
// "all") and its title contains the query case-insensitively (or the query is
// empty). The result is ordered descending by the chosen key; ties keep the
// relative order of the input. The input slice is never mutated.
func FilterSort(campaigns []models.Campaign, category, query string, key SortKey) []models.Campaign {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]models.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if category != CategoryAll && category != "" && c.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Title), query) {
			continue
		}
		filtered = append(filtered, c)
	}

	switch key {
	case SortBudget:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].TotalBudgetCents > filtered[j].TotalBudgetCents
		})
	case SortCPM:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CPMRateCents > filtered[j].CPMRateCents
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	return filtered
}
