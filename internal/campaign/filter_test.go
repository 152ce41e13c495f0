package campaign

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/igotstrelkov/clippin/internal/models"
)

func genCampaign() *rapid.Generator[models.Campaign] {
	return rapid.Custom(func(rt *rapid.T) models.Campaign {
		return models.Campaign{
			ID:               uuid.New(),
			Title:            rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`).Draw(rt, "title"),
			Category:         rapid.SampledFrom(models.Categories).Draw(rt, "category"),
			Status:           models.CampaignStatusActive,
			CPMRateCents:     rapid.Int64Range(1, 10000).Draw(rt, "cpm"),
			TotalBudgetCents: rapid.Int64Range(1000, 10000000).Draw(rt, "budget"),
			CreatedAt:        time.Unix(rapid.Int64Range(0, 2000000000).Draw(rt, "createdAt"), 0),
		}
	})
}

// TestProperty_FilterSort_Membership tests that every result matches the
// filter and no matching input is dropped
func TestProperty_FilterSort_Membership(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		campaigns := rapid.SliceOfN(genCampaign(), 0, 20).Draw(rt, "campaigns")
		category := rapid.SampledFrom(append([]string{CategoryAll}, models.Categories...)).Draw(rt, "category")
		query := rapid.StringMatching(`[a-z]{0,3}`).Draw(rt, "query")

		result := FilterSort(campaigns, category, query, SortNewest)

		matches := func(c models.Campaign) bool {
			if category != CategoryAll && c.Category != category {
				return false
			}
			if query != "" && !strings.Contains(strings.ToLower(c.Title), query) {
				return false
			}
			return true
		}

		for _, c := range result {
			if !matches(c) {
				t.Fatalf("PROPERTY VIOLATION: result contains campaign %q (category %s) not matching filter (category=%s, query=%q)",
					c.Title, c.Category, category, query)
			}
		}

		expected := 0
		for _, c := range campaigns {
			if matches(c) {
				expected++
			}
		}
		if len(result) != expected {
			t.Fatalf("PROPERTY VIOLATION: expected %d matches, got %d", expected, len(result))
		}
	})
}

// TestProperty_FilterSort_Idempotent tests that re-applying the same filter
// and sort to its own output changes nothing
func TestProperty_FilterSort_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		campaigns := rapid.SliceOfN(genCampaign(), 0, 20).Draw(rt, "campaigns")
		key := rapid.SampledFrom([]SortKey{SortNewest, SortBudget, SortCPM}).Draw(rt, "key")
		category := rapid.SampledFrom(append([]string{CategoryAll}, models.Categories...)).Draw(rt, "category")

		once := FilterSort(campaigns, category, "", key)
		twice := FilterSort(once, category, "", key)

		if len(once) != len(twice) {
			t.Fatalf("PROPERTY VIOLATION: second application changed length from %d to %d", len(once), len(twice))
		}
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Fatalf("PROPERTY VIOLATION: second application reordered index %d", i)
			}
		}
	})
}

// TestProperty_FilterSort_Ordering tests that the result is descending in the
// chosen key
func TestProperty_FilterSort_Ordering(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		campaigns := rapid.SliceOfN(genCampaign(), 0, 20).Draw(rt, "campaigns")
		key := rapid.SampledFrom([]SortKey{SortNewest, SortBudget, SortCPM}).Draw(rt, "key")

		result := FilterSort(campaigns, CategoryAll, "", key)

		for i := 1; i < len(result); i++ {
			switch key {
			case SortBudget:
				if result[i-1].TotalBudgetCents < result[i].TotalBudgetCents {
					t.Fatalf("PROPERTY VIOLATION: budget order broken at index %d", i)
				}
			case SortCPM:
				if result[i-1].CPMRateCents < result[i].CPMRateCents {
					t.Fatalf("PROPERTY VIOLATION: cpm order broken at index %d", i)
				}
			default:
				if result[i-1].CreatedAt.Before(result[i].CreatedAt) {
					t.Fatalf("PROPERTY VIOLATION: recency order broken at index %d", i)
				}
			}
		}
	})
}

// TestProperty_FilterSort_InputUnchanged tests that the input slice is never
// mutated
func TestProperty_FilterSort_InputUnchanged(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		campaigns := rapid.SliceOfN(genCampaign(), 1, 20).Draw(rt, "campaigns")

		original := make([]models.Campaign, len(campaigns))
		copy(original, campaigns)

		FilterSort(campaigns, CategoryAll, "", SortBudget)

		for i := range campaigns {
			if campaigns[i].ID != original[i].ID {
				t.Fatalf("PROPERTY VIOLATION: input slice mutated at index %d", i)
			}
		}
	})
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"newest", SortNewest},
		{"budget", SortBudget},
		{"cpm", SortCPM},
		{"", SortNewest},
		{"garbage", SortNewest},
	}
	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterSortCaseInsensitiveQuery(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: uuid.New(), Title: "Summer Fitness Challenge", Category: models.CategoryFitness},
		{ID: uuid.New(), Title: "Winter Gaming Marathon", Category: models.CategoryGaming},
	}

	result := FilterSort(campaigns, CategoryAll, "FITNESS", SortNewest)
	if len(result) != 1 || result[0].Title != "Summer Fitness Challenge" {
		t.Fatalf("expected the fitness campaign, got %v", result)
	}
}
