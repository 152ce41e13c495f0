package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igotstrelkov/clippin/internal/logging"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/monitoring"
)

// Service errors
var (
	ErrProfileNotFound = errors.New("creator profile not found")
	ErrInvalidPlatform = errors.New("invalid verification platform")
	ErrUsernameNotSet  = errors.New("platform username is not set")
	ErrNoCodeGenerated = errors.New("no verification code has been generated")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrCodeNotInBio    = errors.New("verification code not found in bio")
	ErrBioFetchFailed  = errors.New("failed to fetch profile bio")
)

// Platform identifies which social account is being verified
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// ParsePlatform validates a platform path parameter
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(s)) {
	case PlatformInstagram:
		return PlatformInstagram, nil
	case PlatformTikTok:
		return PlatformTikTok, nil
	default:
		return "", ErrInvalidPlatform
	}
}

// BioFetcher fetches the public bio text of a social account. Implementations
// wrap the platform-specific scraping or API surface.
type BioFetcher interface {
	FetchBio(ctx context.Context, platform Platform, username string) (string, error)
}

// Service manages the bio-code ownership handshake: a random code is placed
// on the creator profile, the creator copies it into their social bio, and a
// fetch-and-compare flips the verified flag.
type Service struct {
	db      *pgxpool.Pool
	fetcher BioFetcher
}

// NewService creates a new verification service
func NewService(db *pgxpool.Pool, fetcher BioFetcher) *Service {
	return &Service{
		db:      db,
		fetcher: fetcher,
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateCode returns an 8-character code from an alphabet without
// lookalike characters
func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "clippin-" + string(buf), nil
}

// GenerateCode creates a fresh verification code for the platform and stores
// it on the creator profile. Regenerating replaces any previous code.
func (s *Service) GenerateCode(ctx context.Context, creatorID uuid.UUID, platform Platform) (string, error) {
	profile, err := s.getProfile(ctx, creatorID)
	if err != nil {
		return "", err
	}

	username, verified := platformFields(profile, platform)
	if verified {
		return "", ErrAlreadyVerified
	}
	if username == nil || *username == "" {
		return "", ErrUsernameNotSet
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE creator_profiles SET verification_code = $1, updated_at = NOW()
		WHERE user_id = $2
	`, code, creatorID)
	if err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	logging.LogVerification(creatorID.String(), string(platform), string(StepBio), nil)
	return code, nil
}

// VerifyResult is the outcome of a bio verification attempt
type VerifyResult struct {
	Verified bool   `json:"verified"`
	Step     Step   `json:"step"`
	Message  string `json:"message"`
}

// VerifyBio fetches the account bio and compares it against the stored code.
// On success the platform's verified flag is set and the transient code and
// any previous error are cleared in one update. On failure the error is
// stored on the profile so the next fetch can surface it once.
func (s *Service) VerifyBio(ctx context.Context, creatorID uuid.UUID, platform Platform) (*VerifyResult, error) {
	profile, err := s.getProfile(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	username, verified := platformFields(profile, platform)
	if verified {
		return nil, ErrAlreadyVerified
	}
	if username == nil || *username == "" {
		return nil, ErrUsernameNotSet
	}
	if profile.VerificationCode == nil || *profile.VerificationCode == "" {
		return nil, ErrNoCodeGenerated
	}

	bio, err := s.fetcher.FetchBio(ctx, platform, *username)
	if err != nil {
		s.recordFailure(ctx, creatorID, platform, fmt.Sprintf("Could not read your %s bio. Make sure the account is public.", platform))
		return nil, fmt.Errorf("%w: %v", ErrBioFetchFailed, err)
	}

	if !strings.Contains(bio, *profile.VerificationCode) {
		s.recordFailure(ctx, creatorID, platform, "Verification code not found in your bio")
		return nil, ErrCodeNotInBio
	}

	column := "instagram_verified"
	if platform == PlatformTikTok {
		column = "tiktok_verified"
	}
	_, err = s.db.Exec(ctx, fmt.Sprintf(`
		UPDATE creator_profiles
		SET %s = TRUE, verification_code = NULL, verification_error = NULL, updated_at = NOW()
		WHERE user_id = $1
	`, column), creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark account verified: %w", err)
	}

	monitoring.RecordVerification(string(platform), "success")
	logging.LogVerification(creatorID.String(), string(platform), string(StepSuccess), nil)

	return &VerifyResult{
		Verified: true,
		Step:     StepSuccess,
		Message:  fmt.Sprintf("Your %s account has been verified", platform),
	}, nil
}

// GetStep returns the derived handshake step for the platform
func (s *Service) GetStep(ctx context.Context, creatorID uuid.UUID, platform Platform) (Step, error) {
	profile, err := s.getProfile(ctx, creatorID)
	if err != nil {
		return "", err
	}
	return DeriveStep(profile, platform), nil
}

// ClearError clears the transient verification error. Called after the error
// has been surfaced to the creator once.
func (s *Service) ClearError(ctx context.Context, creatorID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		UPDATE creator_profiles SET verification_error = NULL, updated_at = NOW()
		WHERE user_id = $1
	`, creatorID)
	if err != nil {
		return fmt.Errorf("failed to clear verification error: %w", err)
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, creatorID uuid.UUID, platform Platform, message string) {
	monitoring.RecordVerification(string(platform), "failure")
	logging.LogVerification(creatorID.String(), string(platform), string(StepBio), errors.New(message))
	_, err := s.db.Exec(ctx, `
		UPDATE creator_profiles SET verification_error = $1, updated_at = NOW()
		WHERE user_id = $2
	`, message, creatorID)
	if err != nil {
		logging.LogError(err, "", "verification", "record_failure")
	}
}

func (s *Service) getProfile(ctx context.Context, creatorID uuid.UUID) (*models.CreatorProfile, error) {
	var p models.CreatorProfile
	err := s.db.QueryRow(ctx, `
		SELECT user_id, display_name, bio, avatar_url,
		       tiktok_username, tiktok_verified, instagram_username, instagram_verified,
		       verification_code, verification_error,
		       stripe_account_id, stripe_charges_enabled, stripe_payouts_enabled,
		       total_earnings_cents, pending_earnings_cents
		FROM creator_profiles WHERE user_id = $1
	`, creatorID).Scan(
		&p.UserID, &p.DisplayName, &p.Bio, &p.AvatarURL,
		&p.TikTokUsername, &p.TikTokVerified, &p.InstagramUsername, &p.InstagramVerified,
		&p.VerificationCode, &p.VerificationError,
		&p.StripeAccountID, &p.StripeChargesEnabled, &p.StripePayoutsEnabled,
		&p.TotalEarningsCents, &p.PendingEarningsCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get creator profile: %w", err)
	}
	return &p, nil
}

func platformFields(p *models.CreatorProfile, platform Platform) (*string, bool) {
	if platform == PlatformTikTok {
		return p.TikTokUsername, p.TikTokVerified
	}
	return p.InstagramUsername, p.InstagramVerified
}
