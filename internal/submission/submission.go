package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/igotstrelkov/clippin/internal/logging"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/monitoring"
	"github.com/igotstrelkov/clippin/internal/notify"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service errors
var (
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrSubmissionNotPending    = errors.New("submission has already been reviewed")
	ErrSubmissionNotOwned      = errors.New("submission does not belong to this brand's campaign")
	ErrDuplicateSubmission     = errors.New("this video has already been submitted to the campaign")
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrCampaignNotActive       = errors.New("campaign is not accepting submissions")
	ErrCreatorNotVerified      = errors.New("creator must verify a social account before submitting")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
	ErrBudgetExhausted         = errors.New("campaign budget cannot cover this submission")
	ErrInvalidViewCount        = errors.New("view count must be non-negative")
)

// Service handles submission operations
type Service struct {
	db       *pgxpool.Pool
	notifier notify.Notifier
}

// NewService creates a new submission service
func NewService(db *pgxpool.Pool, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}
	return &Service{
		db:       db,
		notifier: notifier,
	}
}

// CreateSubmissionRequest represents a request to submit a video
type CreateSubmissionRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
}

// ReviewRequest represents an approve/reject decision on a submission
type ReviewRequest struct {
	Status          models.SubmissionStatus `json:"status" binding:"required,oneof=approved rejected"`
	ViewCount       *int64                  `json:"view_count,omitempty"`       // Required for approval
	RejectionReason *string                 `json:"rejection_reason,omitempty"` // Required for rejection
}

const submissionColumns = `id, campaign_id, creator_id, creator_name, video_url, status,
	       view_count, earnings_cents, rejection_reason, paid, submitted_at, reviewed_at`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.CampaignID, &s.CreatorID, &s.CreatorName, &s.VideoURL, &s.Status,
		&s.ViewCount, &s.EarningsCents, &s.RejectionReason, &s.Paid, &s.SubmittedAt, &s.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MaxViewCount bounds brand-supplied view counts. Keeps
// viewCount * cpmRateCents inside int64 for any plausible CPM rate.
const MaxViewCount int64 = 10_000_000_000

// CalculateEarnings computes the earnings in cents for a submission: views at
// the campaign's CPM rate, floored, capped at the per-submission maximum.
func CalculateEarnings(viewCount, cpmRateCents, maxPayoutCents int64) int64 {
	if viewCount <= 0 || cpmRateCents <= 0 {
		return 0
	}
	earnings := viewCount * cpmRateCents / 1000
	if earnings > maxPayoutCents {
		return maxPayoutCents
	}
	return earnings
}

// CreateSubmission submits a video URL to a campaign. The URL must be a valid
// TikTok link, the campaign must be active, the creator must have a verified
// social account, and the same URL cannot be submitted to a campaign twice.
func (s *Service) CreateSubmission(ctx context.Context, creatorID, campaignID uuid.UUID, req *CreateSubmissionRequest) (*models.Submission, error) {
	if err := ValidateVideoURL(req.VideoURL); err != nil {
		return nil, err
	}

	var displayName string
	var tiktokVerified, instagramVerified bool
	err := s.db.QueryRow(ctx, `
		SELECT display_name, tiktok_verified, instagram_verified
		FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&displayName, &tiktokVerified, &instagramVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatorNotVerified
		}
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}
	if !tiktokVerified && !instagramVerified {
		return nil, ErrCreatorNotVerified
	}

	var status models.CampaignStatus
	err = s.db.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1`, campaignID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if status != models.CampaignStatusActive {
		return nil, ErrCampaignNotActive
	}

	var duplicate bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM submissions WHERE campaign_id = $1 AND video_url = $2)
	`, campaignID, req.VideoURL).Scan(&duplicate)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate submission: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicateSubmission
	}

	sub, err := scanSubmission(s.db.QueryRow(ctx, `
		INSERT INTO submissions (id, campaign_id, creator_id, creator_name, video_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+submissionColumns+`
	`, uuid.New(), campaignID, creatorID, displayName, req.VideoURL, models.SubmissionStatusPending))
	if err != nil {
		return nil, mapInsertError(err)
	}

	monitoring.RecordSubmission(string(models.SubmissionStatusPending))
	logging.LogSubmission(sub.ID.String(), campaignID.String(), creatorID.String(), string(sub.Status))
	return sub, nil
}

// mapInsertError converts a unique-index violation on (campaign_id,
// video_url) into ErrDuplicateSubmission. Concurrent submits of the same URL
// can both pass the EXISTS check; the unique index decides.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSubmission
	}
	return fmt.Errorf("failed to create submission: %w", err)
}

// GetSubmissionByID retrieves a submission by ID
func (s *Service) GetSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(ctx, `
		SELECT `+submissionColumns+` FROM submissions WHERE id = $1
	`, submissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// ListForCreator returns all submissions by a creator, newest first
func (s *Service) ListForCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Submission, error) {
	return s.list(ctx, `
		SELECT `+submissionColumns+` FROM submissions
		WHERE creator_id = $1
		ORDER BY submitted_at DESC
	`, creatorID)
}

// ListForBrand returns all submissions against a brand's campaigns, newest
// first. Callers partition the result with Partition for the review tabs.
func (s *Service) ListForBrand(ctx context.Context, brandID uuid.UUID) ([]models.Submission, error) {
	return s.list(ctx, `
		SELECT `+submissionPrefixedColumns+` FROM submissions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE c.brand_id = $1
		ORDER BY s.submitted_at DESC
	`, brandID)
}

const submissionPrefixedColumns = `s.id, s.campaign_id, s.creator_id, s.creator_name, s.video_url, s.status,
	       s.view_count, s.earnings_cents, s.rejection_reason, s.paid, s.submitted_at, s.reviewed_at`

func (s *Service) list(ctx context.Context, query string, args ...any) ([]models.Submission, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, *sub)
	}
	return submissions, nil
}

// Review applies an approve/reject decision to a pending submission. Approval
// records the measured view count, computes earnings, decrements the campaign
// budget with a guard, and credits the creator's pending balance. Rejection
// requires a reason. Both outcomes are terminal.
func (s *Service) Review(ctx context.Context, brandID, submissionID uuid.UUID, req *ReviewRequest) (*models.Submission, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the submission and its campaign economics together
	var sub models.Submission
	var campaignBrandID uuid.UUID
	var cpmRateCents, maxPayoutCents int64
	err = tx.QueryRow(ctx, `
		SELECT s.id, s.campaign_id, s.creator_id, s.status, c.brand_id, c.cpm_rate_cents, c.max_payout_per_submission_cents
		FROM submissions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE s.id = $1
		FOR UPDATE OF s
	`, submissionID).Scan(&sub.ID, &sub.CampaignID, &sub.CreatorID, &sub.Status,
		&campaignBrandID, &cpmRateCents, &maxPayoutCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if campaignBrandID != brandID {
		return nil, ErrSubmissionNotOwned
	}
	if sub.Status != models.SubmissionStatusPending {
		return nil, ErrSubmissionNotPending
	}

	now := time.Now()

	switch req.Status {
	case models.SubmissionStatusApproved:
		if req.ViewCount == nil || *req.ViewCount < 0 || *req.ViewCount > MaxViewCount {
			return nil, ErrInvalidViewCount
		}
		earnings := CalculateEarnings(*req.ViewCount, cpmRateCents, maxPayoutCents)

		// Guarded budget decrement; never lets remaining go negative
		result, err := tx.Exec(ctx, `
			UPDATE campaigns
			SET remaining_budget_cents = remaining_budget_cents - $1, updated_at = now()
			WHERE id = $2 AND remaining_budget_cents >= $1
		`, earnings, sub.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement budget: %w", err)
		}
		if result.RowsAffected() == 0 {
			return nil, ErrBudgetExhausted
		}

		_, err = tx.Exec(ctx, `
			UPDATE submissions
			SET status = $1, view_count = $2, earnings_cents = $3, reviewed_at = $4
			WHERE id = $5
		`, models.SubmissionStatusApproved, *req.ViewCount, earnings, now, submissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to approve submission: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE creator_profiles
			SET pending_earnings_cents = pending_earnings_cents + $1
			WHERE user_id = $2
		`, earnings, sub.CreatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to credit creator earnings: %w", err)
		}

	case models.SubmissionStatusRejected:
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, ErrRejectionReasonRequired
		}
		_, err = tx.Exec(ctx, `
			UPDATE submissions
			SET status = $1, rejection_reason = $2, reviewed_at = $3
			WHERE id = $4
		`, models.SubmissionStatusRejected, *req.RejectionReason, now, submissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to reject submission: %w", err)
		}

	default:
		return nil, fmt.Errorf("invalid review status: %s", req.Status)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	reviewed, err := s.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	monitoring.RecordSubmission(string(reviewed.Status))
	logging.LogSubmission(reviewed.ID.String(), reviewed.CampaignID.String(), reviewed.CreatorID.String(), string(reviewed.Status))

	switch reviewed.Status {
	case models.SubmissionStatusApproved:
		s.notifier.Notify(ctx, reviewed.CreatorID.String(), notify.KindSuccess,
			fmt.Sprintf("Your submission was approved and earned %s", models.FormatUSD(*reviewed.EarningsCents)))
	case models.SubmissionStatusRejected:
		s.notifier.Notify(ctx, reviewed.CreatorID.String(), notify.KindError,
			fmt.Sprintf("Your submission was rejected: %s", *reviewed.RejectionReason))
	}

	return reviewed, nil
}
