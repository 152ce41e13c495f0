package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/igotstrelkov/clippin/internal/cache"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/monitoring"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service errors
var (
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignNotOwned      = errors.New("campaign not owned by brand")
	ErrInvalidCategory       = errors.New("invalid campaign category")
	ErrInvalidBudget         = errors.New("invalid budget: total budget must cover at least one max payout")
	ErrInvalidCPMRate        = errors.New("invalid CPM rate: must be positive")
	ErrCampaignNotDraft      = errors.New("campaign is not in draft status")
	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrHasPendingSubmissions = errors.New("campaign has pending submissions")
)

const (
	marketplaceCacheKey = "marketplace:active_campaigns"
	marketplaceCacheTTL = 30 * time.Second
)

// Service handles campaign operations
type Service struct {
	db    *pgxpool.Pool
	cache *cache.Redis
}

// NewService creates a new campaign service. The cache is optional; a nil
// cache disables marketplace list caching.
func NewService(db *pgxpool.Pool, c *cache.Redis) *Service {
	return &Service{
		db:    db,
		cache: c,
	}
}

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Title                       string   `json:"title" binding:"required,min=1,max=200"`
	Description                 *string  `json:"description,omitempty"`
	Requirements                []string `json:"requirements,omitempty"`
	Category                    string   `json:"category" binding:"required"`
	CPMRateCents                int64    `json:"cpm_rate_cents" binding:"required"`
	MaxPayoutPerSubmissionCents int64    `json:"max_payout_per_submission_cents" binding:"required"`
	TotalBudgetCents            int64    `json:"total_budget_cents" binding:"required"`
}

// UpdateCampaignRequest represents a request to update a campaign
type UpdateCampaignRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Category     *string  `json:"category,omitempty"`
	CPMRateCents *int64   `json:"cpm_rate_cents,omitempty"`
}

// BrandCampaigns represents a brand's campaigns partitioned by status
type BrandCampaigns struct {
	Active    []models.Campaign `json:"active"`
	Draft     []models.Campaign `json:"draft"`
	Completed []models.Campaign `json:"completed"`
	Paused    []models.Campaign `json:"paused"`
}

// BrandStats represents aggregate statistics for a brand
type BrandStats struct {
	TotalSpentCents  int64 `json:"total_spent_cents"`
	TotalViews       int64 `json:"total_views"`
	TotalSubmissions int64 `json:"total_submissions"`
	AvgCPMCents      int64 `json:"avg_cpm_cents"`
	ActiveCampaigns  int64 `json:"active_campaigns"`
}

const campaignColumns = `id, brand_id, brand_name, title, description, requirements, category, status,
	       cpm_rate_cents, max_payout_per_submission_cents, total_budget_cents, remaining_budget_cents,
	       created_at, updated_at, published_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.BrandID, &c.BrandName, &c.Title, &c.Description, &c.Requirements, &c.Category, &c.Status,
		&c.CPMRateCents, &c.MaxPayoutPerSubmissionCents, &c.TotalBudgetCents, &c.RemainingBudgetCents,
		&c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func validateEconomics(cpmRateCents, maxPayoutCents, totalBudgetCents int64) error {
	if cpmRateCents <= 0 {
		return ErrInvalidCPMRate
	}
	if maxPayoutCents <= 0 || totalBudgetCents < maxPayoutCents {
		return ErrInvalidBudget
	}
	return nil
}

// CreateCampaign creates a new campaign in draft status. The remaining budget
// starts equal to the total budget.
func (s *Service) CreateCampaign(ctx context.Context, brandID uuid.UUID, req *CreateCampaignRequest) (*models.Campaign, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if err := validateEconomics(req.CPMRateCents, req.MaxPayoutPerSubmissionCents, req.TotalBudgetCents); err != nil {
		return nil, err
	}

	var brandName string
	err := s.db.QueryRow(ctx, `
		SELECT company_name FROM brand_profiles WHERE user_id = $1
	`, brandID).Scan(&brandName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotOwned
		}
		return nil, fmt.Errorf("failed to get brand profile: %w", err)
	}

	campaign, err := scanCampaign(s.db.QueryRow(ctx, `
		INSERT INTO campaigns (id, brand_id, brand_name, title, description, requirements, category, status,
		                       cpm_rate_cents, max_payout_per_submission_cents, total_budget_cents, remaining_budget_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING `+campaignColumns+`
	`, uuid.New(), brandID, brandName, req.Title, req.Description, req.Requirements, req.Category,
		models.CampaignStatusDraft, req.CPMRateCents, req.MaxPayoutPerSubmissionCents, req.TotalBudgetCents))
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	monitoring.Get().CampaignsCreated.Inc()
	return campaign, nil
}

// GetCampaignByID retrieves a campaign by ID
func (s *Service) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	campaign, err := scanCampaign(s.db.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1
	`, campaignID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// UpdateCampaign updates campaign fields owned by the brand. Budget fields are
// intentionally not updatable here: the remaining budget changes only through
// approved submissions.
func (s *Service) UpdateCampaign(ctx context.Context, brandID, campaignID uuid.UUID, req *UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.BrandID != brandID {
		return nil, ErrCampaignNotOwned
	}

	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		return nil, ErrInvalidCategory
	}
	if req.CPMRateCents != nil && *req.CPMRateCents <= 0 {
		return nil, ErrInvalidCPMRate
	}

	updated, err := scanCampaign(s.db.QueryRow(ctx, `
		UPDATE campaigns
		SET title        = COALESCE($1, title),
		    description  = COALESCE($2, description),
		    requirements = COALESCE($3, requirements),
		    category     = COALESCE($4, category),
		    cpm_rate_cents = COALESCE($5, cpm_rate_cents),
		    updated_at   = now()
		WHERE id = $6
		RETURNING `+campaignColumns+`
	`, req.Title, req.Description, req.Requirements, req.Category, req.CPMRateCents, campaignID))
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	s.invalidateMarketplaceCache(ctx)
	return updated, nil
}

// DeleteCampaign deletes a campaign owned by the brand. Deletion is refused
// while pending submissions exist so creators do not lose in-flight work.
func (s *Service) DeleteCampaign(ctx context.Context, brandID, campaignID uuid.UUID) error {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.BrandID != brandID {
		return ErrCampaignNotOwned
	}

	var pending int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM submissions WHERE campaign_id = $1 AND status = $2
	`, campaignID, models.SubmissionStatusPending).Scan(&pending)
	if err != nil {
		return fmt.Errorf("failed to count pending submissions: %w", err)
	}
	if pending > 0 {
		return ErrHasPendingSubmissions
	}

	result, err := s.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}

	s.invalidateMarketplaceCache(ctx)
	return nil
}

// PublishCampaign transitions a draft campaign to active
func (s *Service) PublishCampaign(ctx context.Context, brandID, campaignID uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.BrandID != brandID {
		return nil, ErrCampaignNotOwned
	}
	if campaign.Status != models.CampaignStatusDraft && campaign.Status != models.CampaignStatusPaused {
		return nil, ErrCampaignNotDraft
	}

	updated, err := scanCampaign(s.db.QueryRow(ctx, `
		UPDATE campaigns
		SET status = $1, published_at = COALESCE(published_at, now()), updated_at = now()
		WHERE id = $2
		RETURNING `+campaignColumns+`
	`, models.CampaignStatusActive, campaignID))
	if err != nil {
		return nil, fmt.Errorf("failed to publish campaign: %w", err)
	}

	monitoring.Get().CampaignsPublished.Inc()
	s.invalidateMarketplaceCache(ctx)
	return updated, nil
}

// PauseCampaign transitions an active campaign to paused
func (s *Service) PauseCampaign(ctx context.Context, brandID, campaignID uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.BrandID != brandID {
		return nil, ErrCampaignNotOwned
	}
	if campaign.Status != models.CampaignStatusActive {
		return nil, ErrCampaignNotActive
	}

	updated, err := scanCampaign(s.db.QueryRow(ctx, `
		UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2
		RETURNING `+campaignColumns+`
	`, models.CampaignStatusPaused, campaignID))
	if err != nil {
		return nil, fmt.Errorf("failed to pause campaign: %w", err)
	}

	s.invalidateMarketplaceCache(ctx)
	return updated, nil
}

// ListActiveCampaigns returns all active campaigns for the marketplace. The
// unfiltered list is cached briefly; filtering and sorting happen in
// FilterSort on top of the cached snapshot.
func (s *Service) ListActiveCampaigns(ctx context.Context) ([]models.Campaign, error) {
	if s.cache != nil {
		var cached []models.Campaign
		err := s.cache.GetJSON(ctx, marketplaceCacheKey, &cached)
		if err == nil {
			monitoring.RecordCacheHit("marketplace")
			return cached, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			monitoring.RecordCacheMiss("marketplace")
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1
		ORDER BY created_at DESC
	`, models.CampaignStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, marketplaceCacheKey, campaigns, marketplaceCacheTTL)
	}

	return campaigns, nil
}

// SearchMarketplace returns the filtered, sorted marketplace listing
func (s *Service) SearchMarketplace(ctx context.Context, category, query string, key SortKey) ([]models.Campaign, error) {
	campaigns, err := s.ListActiveCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	return FilterSort(campaigns, category, query, key), nil
}

// ListBrandCampaigns returns a brand's campaigns partitioned by status
func (s *Service) ListBrandCampaigns(ctx context.Context, brandID uuid.UUID) (*BrandCampaigns, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE brand_id = $1
		ORDER BY created_at DESC
	`, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand campaigns: %w", err)
	}
	defer rows.Close()

	result := &BrandCampaigns{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		switch c.Status {
		case models.CampaignStatusActive:
			result.Active = append(result.Active, *c)
		case models.CampaignStatusDraft:
			result.Draft = append(result.Draft, *c)
		case models.CampaignStatusCompleted:
			result.Completed = append(result.Completed, *c)
		case models.CampaignStatusPaused:
			result.Paused = append(result.Paused, *c)
		}
	}

	return result, nil
}

// GetBrandStats returns aggregate statistics across a brand's campaigns
func (s *Service) GetBrandStats(ctx context.Context, brandID uuid.UUID) (*BrandStats, error) {
	var stats BrandStats
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_budget_cents - remaining_budget_cents), 0),
		       COALESCE(AVG(cpm_rate_cents), 0)::bigint,
		       COUNT(*) FILTER (WHERE status = $2)
		FROM campaigns WHERE brand_id = $1
	`, brandID, models.CampaignStatusActive).Scan(&stats.TotalSpentCents, &stats.AvgCPMCents, &stats.ActiveCampaigns)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate campaign stats: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(s.view_count), 0)
		FROM submissions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE c.brand_id = $1
	`, brandID).Scan(&stats.TotalSubmissions, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate submission stats: %w", err)
	}

	return &stats, nil
}

// CompleteIfExhausted marks a campaign completed once its remaining budget can
// no longer fund a single view at the campaign's CPM rate. Called after budget
// decrements.
func (s *Service) CompleteIfExhausted(ctx context.Context, campaignID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		UPDATE campaigns
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND remaining_budget_cents < cpm_rate_cents / 1000 + 1
	`, models.CampaignStatusCompleted, campaignID, models.CampaignStatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete exhausted campaign: %w", err)
	}
	s.invalidateMarketplaceCache(ctx)
	return nil
}

func (s *Service) invalidateMarketplaceCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, marketplaceCacheKey)
	}
}
