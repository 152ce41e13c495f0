package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignStatus represents the status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Campaign categories (marketing verticals)
const (
	CategoryFashion   = "fashion"
	CategoryBeauty    = "beauty"
	CategoryFitness   = "fitness"
	CategoryGaming    = "gaming"
	CategoryTech      = "tech"
	CategoryFood      = "food"
	CategoryTravel    = "travel"
	CategoryMusic     = "music"
	CategoryEducation = "education"
	CategoryOther     = "other"
)

// Categories lists all valid campaign categories
var Categories = []string{
	CategoryFashion, CategoryBeauty, CategoryFitness, CategoryGaming,
	CategoryTech, CategoryFood, CategoryTravel, CategoryMusic,
	CategoryEducation, CategoryOther,
}

// IsValidCategory reports whether c is a known campaign category
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Campaign represents a paid content campaign posted by a brand. All monetary
// fields are integer cents; CPMRateCents is the amount paid per 1,000 views.
// RemainingBudgetCents never exceeds TotalBudgetCents and only decreases
// while the campaign is active.
type Campaign struct {
	ID                          uuid.UUID      `json:"id" db:"id"`
	BrandID                     uuid.UUID      `json:"brand_id" db:"brand_id"`
	BrandName                   string         `json:"brand_name" db:"brand_name"`
	Title                       string         `json:"title" db:"title"`
	Description                 *string        `json:"description,omitempty" db:"description"`
	Requirements                []string       `json:"requirements,omitempty" db:"requirements"`
	Category                    string         `json:"category" db:"category"`
	Status                      CampaignStatus `json:"status" db:"status"`
	CPMRateCents                int64          `json:"cpm_rate_cents" db:"cpm_rate_cents"`
	MaxPayoutPerSubmissionCents int64          `json:"max_payout_per_submission_cents" db:"max_payout_per_submission_cents"`
	TotalBudgetCents            int64          `json:"total_budget_cents" db:"total_budget_cents"`
	RemainingBudgetCents        int64          `json:"remaining_budget_cents" db:"remaining_budget_cents"`
	CreatedAt                   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt                   time.Time      `json:"updated_at" db:"updated_at"`
	PublishedAt                 *time.Time     `json:"published_at,omitempty" db:"published_at"`
}

// BudgetUsedPercent returns the percentage of the total budget consumed,
// rounded to one decimal place. A zero total budget yields zero rather than
// dividing by zero.
func (c *Campaign) BudgetUsedPercent() decimal.Decimal {
	if c.TotalBudgetCents == 0 {
		return decimal.Zero
	}
	used := decimal.NewFromInt(c.TotalBudgetCents - c.RemainingBudgetCents)
	total := decimal.NewFromInt(c.TotalBudgetCents)
	return used.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}

// SpentCents returns the amount of budget consumed so far
func (c *Campaign) SpentCents() int64 {
	return c.TotalBudgetCents - c.RemainingBudgetCents
}
