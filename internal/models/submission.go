package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the status of a submission. Approved and
// rejected are terminal: no transition leads back to pending.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission represents a creator's video submitted against a campaign.
// ViewCount and EarningsCents are nil until the submission is reviewed;
// RejectionReason is set only when the submission is rejected. Paid marks
// approved submissions whose earnings were included in a payout.
type Submission struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	CampaignID      uuid.UUID        `json:"campaign_id" db:"campaign_id"`
	CreatorID       uuid.UUID        `json:"creator_id" db:"creator_id"`
	CreatorName     string           `json:"creator_name" db:"creator_name"`
	VideoURL        string           `json:"video_url" db:"video_url"`
	Status          SubmissionStatus `json:"status" db:"status"`
	ViewCount       *int64           `json:"view_count,omitempty" db:"view_count"`
	EarningsCents   *int64           `json:"earnings_cents,omitempty" db:"earnings_cents"`
	RejectionReason *string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	Paid            bool             `json:"paid" db:"paid"`
	SubmittedAt     time.Time        `json:"submitted_at" db:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// IsReviewed reports whether the submission has left the pending state
func (s *Submission) IsReviewed() bool {
	return s.Status != SubmissionStatusPending
}
