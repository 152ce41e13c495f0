package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igotstrelkov/clippin/internal/logging"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/monitoring"
	"github.com/igotstrelkov/clippin/internal/notify"
)

// Service errors
var (
	ErrPayoutNotFound        = errors.New("payout not found")
	ErrPayoutNotPending      = errors.New("payout is not in pending status")
	ErrBelowMinimumAmount    = errors.New("payout amount below minimum threshold")
	ErrNothingSelected       = errors.New("no submissions selected for payout")
	ErrAmountMismatch        = errors.New("requested amount does not match selected submissions")
	ErrSubmissionNotEligible = errors.New("submission is not eligible for payout")
	ErrStripeNotReady        = errors.New("stripe account is not ready to receive payouts")
	ErrCreatorNotFound       = errors.New("creator not found")
)

// Service handles creator payout operations
type Service struct {
	db       *pgxpool.Pool
	config   *models.PayoutConfig
	notifier notify.Notifier
}

// NewService creates a new payout service
func NewService(db *pgxpool.Pool, config *models.PayoutConfig, notifier notify.Notifier) *Service {
	if config == nil {
		config = models.DefaultPayoutConfig()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}
	return &Service{
		db:       db,
		config:   config,
		notifier: notifier,
	}
}

// EarningsSummary is a creator's balance snapshot plus the eligible earnings
// the payout selection operates on
type EarningsSummary struct {
	TotalEarningsCents   int64            `json:"total_earnings_cents"`
	PendingEarningsCents int64            `json:"pending_earnings_cents"`
	MinimumPayoutCents   int64            `json:"minimum_payout_cents"`
	PendingEarnings      []PendingEarning `json:"pending_earnings"`
}

// GetEarningsSummary returns the creator's balances and approved unpaid
// submissions, newest approval first
func (s *Service) GetEarningsSummary(ctx context.Context, creatorID uuid.UUID) (*EarningsSummary, error) {
	summary := &EarningsSummary{MinimumPayoutCents: s.config.MinimumAmountCents}

	err := s.db.QueryRow(ctx, `
		SELECT total_earnings_cents, pending_earnings_cents
		FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&summary.TotalEarningsCents, &summary.PendingEarningsCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}

	earnings, err := s.ListPendingEarnings(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	summary.PendingEarnings = earnings

	return summary, nil
}

// ListPendingEarnings returns the creator's approved submissions that have
// not been included in a payout yet
func (s *Service) ListPendingEarnings(ctx context.Context, creatorID uuid.UUID) ([]PendingEarning, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.campaign_id, c.title, s.view_count, s.earnings_cents, s.reviewed_at
		FROM submissions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE s.creator_id = $1 AND s.status = $2 AND s.paid = FALSE
		ORDER BY s.reviewed_at DESC
	`, creatorID, models.SubmissionStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending earnings: %w", err)
	}
	defer rows.Close()

	var earnings []PendingEarning
	for rows.Next() {
		var e PendingEarning
		if err := rows.Scan(&e.SubmissionID, &e.CampaignID, &e.CampaignTitle,
			&e.ViewCount, &e.AmountCents, &e.ApprovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending earning: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}

// RequestPayoutRequest represents a payout request over a selected set of
// approved submissions
type RequestPayoutRequest struct {
	AmountCents   int64       `json:"amount_cents" binding:"required"`
	SubmissionIDs []uuid.UUID `json:"submission_ids" binding:"required"`
}

// RequestPayout creates a pending payout for the selected submissions.
// The selected submissions are marked paid and their total moves from
// pending to total earnings in the same transaction, so a refreshed
// earnings view can never offer them for payout again.
func (s *Service) RequestPayout(ctx context.Context, creatorID uuid.UUID, req *RequestPayoutRequest) (*models.Payout, error) {
	if len(req.SubmissionIDs) == 0 {
		return nil, ErrNothingSelected
	}
	if req.AmountCents < s.config.MinimumAmountCents {
		return nil, ErrBelowMinimumAmount
	}

	var payoutsEnabled bool
	err := s.db.QueryRow(ctx, `
		SELECT stripe_payouts_enabled FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&payoutsEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}
	if !payoutsEnabled {
		return nil, ErrStripeNotReady
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the selected submissions and verify each is an approved, unpaid
	// submission owned by the requester
	rows, err := tx.Query(ctx, `
		SELECT id, earnings_cents
		FROM submissions
		WHERE id = ANY($1) AND creator_id = $2 AND status = $3 AND paid = FALSE
		FOR UPDATE
	`, req.SubmissionIDs, creatorID, models.SubmissionStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to lock submissions: %w", err)
	}

	var totalCents int64
	eligible := make(map[uuid.UUID]bool, len(req.SubmissionIDs))
	for rows.Next() {
		var id uuid.UUID
		var amount int64
		if err := rows.Scan(&id, &amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		eligible[id] = true
		totalCents += amount
	}
	rows.Close()

	for _, id := range req.SubmissionIDs {
		if !eligible[id] {
			return nil, ErrSubmissionNotEligible
		}
	}
	if totalCents != req.AmountCents {
		return nil, ErrAmountMismatch
	}

	payoutID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO payouts (id, creator_id, amount_cents, submission_count, status)
		VALUES ($1, $2, $3, $4, $5)
	`, payoutID, creatorID, totalCents, len(req.SubmissionIDs), models.PayoutStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create payout record: %w", err)
	}

	for _, id := range req.SubmissionIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO payout_submissions (payout_id, submission_id) VALUES ($1, $2)
		`, payoutID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to link submission to payout: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE submissions SET paid = TRUE, updated_at = NOW() WHERE id = ANY($1)
	`, req.SubmissionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to mark submissions paid: %w", err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE creator_profiles
		SET pending_earnings_cents = pending_earnings_cents - $1,
		    total_earnings_cents = total_earnings_cents + $1,
		    updated_at = NOW()
		WHERE user_id = $2 AND pending_earnings_cents >= $1
	`, totalCents, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update earnings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrAmountMismatch
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	monitoring.RecordPayout(string(models.PayoutStatusPending), totalCents)
	logging.LogPayout(payoutID.String(), creatorID.String(), string(models.PayoutStatusPending),
		totalCents, len(req.SubmissionIDs))

	return s.GetPayoutByID(ctx, payoutID)
}

// GetPayoutByID retrieves a payout by ID
func (s *Service) GetPayoutByID(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	var p models.Payout
	err := s.db.QueryRow(ctx, `
		SELECT id, creator_id, amount_cents, submission_count, status,
		       stripe_transfer_id, failure_reason, created_at, completed_at, failed_at
		FROM payouts WHERE id = $1
	`, payoutID).Scan(
		&p.ID, &p.CreatorID, &p.AmountCents, &p.SubmissionCount, &p.Status,
		&p.StripeTransferID, &p.FailureReason, &p.CreatedAt, &p.CompletedAt, &p.FailedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &p, nil
}

// ListForCreator returns the creator's payout history, newest first
func (s *Service) ListForCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Payout, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, creator_id, amount_cents, submission_count, status,
		       stripe_transfer_id, failure_reason, created_at, completed_at, failed_at
		FROM payouts
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(
			&p.ID, &p.CreatorID, &p.AmountCents, &p.SubmissionCount, &p.Status,
			&p.StripeTransferID, &p.FailureReason, &p.CreatedAt, &p.CompletedAt, &p.FailedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, nil
}

// ListPending returns pending payouts oldest first, for the transfer worker
func (s *Service) ListPending(ctx context.Context, limit int) ([]models.Payout, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, creator_id, amount_cents, submission_count, status,
		       stripe_transfer_id, failure_reason, created_at, completed_at, failed_at
		FROM payouts
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, models.PayoutStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(
			&p.ID, &p.CreatorID, &p.AmountCents, &p.SubmissionCount, &p.Status,
			&p.StripeTransferID, &p.FailureReason, &p.CreatedAt, &p.CompletedAt, &p.FailedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, nil
}

// Complete marks a pending payout completed and records the Stripe transfer ID
func (s *Service) Complete(ctx context.Context, payoutID uuid.UUID, transferID string) error {
	now := time.Now()
	result, err := s.db.Exec(ctx, `
		UPDATE payouts
		SET status = $1, stripe_transfer_id = $2, completed_at = $3
		WHERE id = $4 AND status = $5
	`, models.PayoutStatusCompleted, transferID, now, payoutID, models.PayoutStatusPending)
	if err != nil {
		return fmt.Errorf("failed to complete payout: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPayoutNotPending
	}

	p, err := s.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return err
	}

	monitoring.RecordPayout(string(models.PayoutStatusCompleted), p.AmountCents)
	logging.LogPayout(p.ID.String(), p.CreatorID.String(), string(models.PayoutStatusCompleted),
		p.AmountCents, p.SubmissionCount)
	s.notifier.Notify(ctx, p.CreatorID.String(), notify.KindSuccess,
		fmt.Sprintf("Your payout of %s has been sent", models.FormatUSD(p.AmountCents)))

	return nil
}

// Fail marks a pending payout failed and returns the funds: the linked
// submissions become payable again and the amount moves back from total
// to pending earnings
func (s *Service) Fail(ctx context.Context, payoutID uuid.UUID, reason string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var creatorID uuid.UUID
	var amountCents int64
	var submissionCount int
	var status models.PayoutStatus
	err = tx.QueryRow(ctx, `
		SELECT creator_id, amount_cents, submission_count, status
		FROM payouts WHERE id = $1 FOR UPDATE
	`, payoutID).Scan(&creatorID, &amountCents, &submissionCount, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPayoutNotFound
		}
		return fmt.Errorf("failed to get payout: %w", err)
	}
	if status != models.PayoutStatusPending {
		return ErrPayoutNotPending
	}

	now := time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE payouts SET status = $1, failure_reason = $2, failed_at = $3 WHERE id = $4
	`, models.PayoutStatusFailed, reason, now, payoutID)
	if err != nil {
		return fmt.Errorf("failed to update payout status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE submissions SET paid = FALSE, updated_at = NOW()
		WHERE id IN (SELECT submission_id FROM payout_submissions WHERE payout_id = $1)
	`, payoutID)
	if err != nil {
		return fmt.Errorf("failed to unmark submissions: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE creator_profiles
		SET pending_earnings_cents = pending_earnings_cents + $1,
		    total_earnings_cents = total_earnings_cents - $1,
		    updated_at = NOW()
		WHERE user_id = $2
	`, amountCents, creatorID)
	if err != nil {
		return fmt.Errorf("failed to restore earnings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	monitoring.RecordPayout(string(models.PayoutStatusFailed), amountCents)
	logging.LogPayout(payoutID.String(), creatorID.String(), string(models.PayoutStatusFailed),
		amountCents, submissionCount)
	s.notifier.Notify(ctx, creatorID.String(), notify.KindError,
		fmt.Sprintf("Your payout of %s failed: %s", models.FormatUSD(amountCents), reason))

	return nil
}

// ListSubmissionsForPayout returns the submissions bundled into a payout
func (s *Service) ListSubmissionsForPayout(ctx context.Context, payoutID uuid.UUID) ([]PendingEarning, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.campaign_id, c.title, s.view_count, s.earnings_cents, s.reviewed_at
		FROM payout_submissions ps
		JOIN submissions s ON s.id = ps.submission_id
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE ps.payout_id = $1
		ORDER BY s.reviewed_at DESC
	`, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout submissions: %w", err)
	}
	defer rows.Close()

	var earnings []PendingEarning
	for rows.Next() {
		var e PendingEarning
		if err := rows.Scan(&e.SubmissionID, &e.CampaignID, &e.CampaignTitle,
			&e.ViewCount, &e.AmountCents, &e.ApprovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payout submission: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}
