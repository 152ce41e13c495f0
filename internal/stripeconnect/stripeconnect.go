package stripeconnect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/account"
	"github.com/stripe/stripe-go/v76/accountlink"
	"github.com/stripe/stripe-go/v76/transfer"

	"github.com/igotstrelkov/clippin/internal/config"
	"github.com/igotstrelkov/clippin/internal/models"
)

// Service errors
var (
	ErrProfileNotFound   = errors.New("creator profile not found")
	ErrNoStripeAccount   = errors.New("creator has no connected Stripe account")
	ErrPayoutsNotEnabled = errors.New("payouts are not enabled on the connected account")
	ErrAccountExists     = errors.New("creator already has a connected Stripe account")
)

// AccountStatus reflects the connected account's current capabilities
type AccountStatus struct {
	AccountID        string `json:"account_id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

// OnboardingLink is a single-use Stripe hosted onboarding URL
type OnboardingLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service manages Stripe Connect Express accounts for creators
type Service struct {
	db     *pgxpool.Pool
	appURL string
}

// NewService creates a new Stripe Connect service
func NewService(db *pgxpool.Pool, stripeCfg *config.StripeConfig, appURL string) *Service {
	if stripeCfg.SecretKey != "" {
		stripe.Key = stripeCfg.SecretKey
	}
	return &Service{
		db:     db,
		appURL: appURL,
	}
}

// CreateAccount creates a Stripe Express account for a creator and stores
// its ID on the creator profile. Idempotent per creator: a second call for a
// creator with an account returns ErrAccountExists.
func (s *Service) CreateAccount(ctx context.Context, creatorID uuid.UUID, email string) (string, error) {
	var existing *string
	err := s.db.QueryRow(ctx, `
		SELECT stripe_account_id FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get creator profile: %w", err)
	}
	if existing != nil && *existing != "" {
		return "", ErrAccountExists
	}

	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		Metadata: map[string]string{
			"creator_id": creatorID.String(),
		},
	}

	acct, err := account.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create Stripe account: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		UPDATE creator_profiles SET stripe_account_id = $1, updated_at = NOW()
		WHERE user_id = $2
	`, acct.ID, creatorID)
	if err != nil {
		return "", fmt.Errorf("failed to store Stripe account ID: %w", err)
	}

	return acct.ID, nil
}

// CreateOnboardingLink creates a hosted onboarding link for the creator's
// connected account
func (s *Service) CreateOnboardingLink(ctx context.Context, creatorID uuid.UUID) (*OnboardingLink, error) {
	accountID, err := s.getAccountID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(fmt.Sprintf("%s/dashboard/payouts?refresh=true", s.appURL)),
		ReturnURL:  stripe.String(fmt.Sprintf("%s/dashboard/payouts?onboarding=complete", s.appURL)),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}

	link, err := accountlink.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create onboarding link: %w", err)
	}

	return &OnboardingLink{
		URL:       link.URL,
		ExpiresAt: time.Unix(link.ExpiresAt, 0),
	}, nil
}

// GetAccountStatus fetches the connected account from Stripe and persists
// the current charges/payouts flags on the creator profile
func (s *Service) GetAccountStatus(ctx context.Context, creatorID uuid.UUID) (*AccountStatus, error) {
	accountID, err := s.getAccountID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	acct, err := account.GetByID(accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Stripe account: %w", err)
	}

	status := &AccountStatus{
		AccountID:        acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}

	_, err = s.db.Exec(ctx, `
		UPDATE creator_profiles
		SET stripe_charges_enabled = $1, stripe_payouts_enabled = $2, updated_at = NOW()
		WHERE user_id = $3
	`, status.ChargesEnabled, status.PayoutsEnabled, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}

	return status, nil
}

// Transfer moves amountCents from the platform balance to the creator's
// connected account. The payout ID is set as the transfer group so Stripe
// records can be reconciled against payout rows.
func (s *Service) Transfer(ctx context.Context, creatorID uuid.UUID, amountCents int64, payoutID uuid.UUID) (string, error) {
	var accountID *string
	var payoutsEnabled bool
	err := s.db.QueryRow(ctx, `
		SELECT stripe_account_id, stripe_payouts_enabled
		FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&accountID, &payoutsEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get creator profile: %w", err)
	}
	if accountID == nil || *accountID == "" {
		return "", ErrNoStripeAccount
	}
	if !payoutsEnabled {
		return "", ErrPayoutsNotEnabled
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Destination:   stripe.String(*accountID),
		TransferGroup: stripe.String("payout_" + payoutID.String()),
		Metadata: map[string]string{
			"payout_id":  payoutID.String(),
			"creator_id": creatorID.String(),
		},
	}

	tr, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create Stripe transfer: %w", err)
	}

	return tr.ID, nil
}

// HasPayoutsEnabled reports whether the creator can receive transfers based
// on the persisted account flags, without a Stripe API call
func (s *Service) HasPayoutsEnabled(ctx context.Context, creatorID uuid.UUID) (bool, error) {
	var profile models.CreatorProfile
	err := s.db.QueryRow(ctx, `
		SELECT stripe_payouts_enabled FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&profile.StripePayoutsEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrProfileNotFound
		}
		return false, fmt.Errorf("failed to get creator profile: %w", err)
	}
	return profile.StripePayoutsEnabled, nil
}

// getAccountID returns the stored Stripe account ID for the creator
func (s *Service) getAccountID(ctx context.Context, creatorID uuid.UUID) (string, error) {
	var accountID *string
	err := s.db.QueryRow(ctx, `
		SELECT stripe_account_id FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get creator profile: %w", err)
	}
	if accountID == nil || *accountID == "" {
		return "", ErrNoStripeAccount
	}
	return *accountID, nil
}
