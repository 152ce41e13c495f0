package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType represents the type of user
type UserType string

const (
	UserTypeCreator UserType = "creator"
	UserTypeBrand   UserType = "brand"
	UserTypeAdmin   UserType = "admin"
)

// User represents a user in the system
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	UserType      UserType  `json:"user_type" db:"user_type"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CreatorProfile represents additional creator information, including the
// social verification handshake state and Stripe Connect linkage. The
// verification code and error fields are transient: the code lives only
// between generate and verify, and the error is cleared on the next
// successful verification attempt.
type CreatorProfile struct {
	UserID               uuid.UUID `json:"user_id" db:"user_id"`
	DisplayName          string    `json:"display_name" db:"display_name"`
	Bio                  *string   `json:"bio,omitempty" db:"bio"`
	AvatarURL            *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	TikTokUsername       *string   `json:"tiktok_username,omitempty" db:"tiktok_username"`
	TikTokVerified       bool      `json:"tiktok_verified" db:"tiktok_verified"`
	InstagramUsername    *string   `json:"instagram_username,omitempty" db:"instagram_username"`
	InstagramVerified    bool      `json:"instagram_verified" db:"instagram_verified"`
	VerificationCode     *string   `json:"verification_code,omitempty" db:"verification_code"`
	VerificationError    *string   `json:"verification_error,omitempty" db:"verification_error"`
	StripeAccountID      *string   `json:"stripe_account_id,omitempty" db:"stripe_account_id"`
	StripeChargesEnabled bool      `json:"stripe_charges_enabled" db:"stripe_charges_enabled"`
	StripePayoutsEnabled bool      `json:"stripe_payouts_enabled" db:"stripe_payouts_enabled"`
	TotalEarningsCents   int64     `json:"total_earnings_cents" db:"total_earnings_cents"`
	PendingEarningsCents int64     `json:"pending_earnings_cents" db:"pending_earnings_cents"`
}

// BrandProfile represents additional brand information
type BrandProfile struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Website     *string   `json:"website,omitempty" db:"website"`
	LogoURL     *string   `json:"logo_url,omitempty" db:"logo_url"`
}
