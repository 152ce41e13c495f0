package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the status of a payout
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// Payout represents an aggregate payout request built from a creator-selected
// set of approved, unpaid submissions. AmountCents is the sum of the selected
// submissions' earnings at request time.
type Payout struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	CreatorID        uuid.UUID    `json:"creator_id" db:"creator_id"`
	AmountCents      int64        `json:"amount_cents" db:"amount_cents"`
	SubmissionCount  int          `json:"submission_count" db:"submission_count"`
	Status           PayoutStatus `json:"status" db:"status"`
	StripeTransferID *string      `json:"stripe_transfer_id,omitempty" db:"stripe_transfer_id"`
	FailureReason    *string      `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	FailedAt         *time.Time   `json:"failed_at,omitempty" db:"failed_at"`
}

// PayoutConfig holds payout configuration
type PayoutConfig struct {
	MinimumAmountCents int64 `json:"minimum_amount_cents"` // Minimum payout amount (default: $10.00)
}

// DefaultPayoutConfig returns the default payout configuration
func DefaultPayoutConfig() *PayoutConfig {
	return &PayoutConfig{
		MinimumAmountCents: 1000,
	}
}
