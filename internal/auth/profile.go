package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/igotstrelkov/clippin/internal/models"
)

// ProfileResponse bundles the user with their role-specific profile. Exactly
// one of Creator/Brand is set.
type ProfileResponse struct {
	User    UserResponse           `json:"user"`
	Creator *models.CreatorProfile `json:"creator,omitempty"`
	Brand   *models.BrandProfile   `json:"brand,omitempty"`
}

// GetProfile returns the user plus their creator or brand profile
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{User: toUserResponse(user)}

	switch user.UserType {
	case models.UserTypeCreator:
		var p models.CreatorProfile
		err = s.db.QueryRow(ctx, `
			SELECT user_id, display_name, bio, avatar_url,
			       tiktok_username, tiktok_verified, instagram_username, instagram_verified,
			       verification_code, verification_error,
			       stripe_account_id, stripe_charges_enabled, stripe_payouts_enabled,
			       total_earnings_cents, pending_earnings_cents
			FROM creator_profiles WHERE user_id = $1
		`, userID).Scan(
			&p.UserID, &p.DisplayName, &p.Bio, &p.AvatarURL,
			&p.TikTokUsername, &p.TikTokVerified, &p.InstagramUsername, &p.InstagramVerified,
			&p.VerificationCode, &p.VerificationError,
			&p.StripeAccountID, &p.StripeChargesEnabled, &p.StripePayoutsEnabled,
			&p.TotalEarningsCents, &p.PendingEarningsCents,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get creator profile: %w", err)
		}
		resp.Creator = &p
	case models.UserTypeBrand:
		var p models.BrandProfile
		err = s.db.QueryRow(ctx, `
			SELECT user_id, company_name, website, logo_url
			FROM brand_profiles WHERE user_id = $1
		`, userID).Scan(&p.UserID, &p.CompanyName, &p.Website, &p.LogoURL)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get brand profile: %w", err)
		}
		resp.Brand = &p
	}

	return resp, nil
}

// UpdateProfileRequest carries the editable profile fields. Creator and brand
// fields are accepted on the same shape; the user's type decides which apply.
type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	TikTokUsername    *string `json:"tiktok_username,omitempty"`
	InstagramUsername *string `json:"instagram_username,omitempty"`
	CompanyName       *string `json:"company_name,omitempty"`
	Website           *string `json:"website,omitempty"`
	LogoURL           *string `json:"logo_url,omitempty"`
}

// UpdateProfile applies the editable fields for the user's role. Changing a
// social username resets that platform's verified flag: the new account has
// to go through the bio handshake again.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.UserType {
	case models.UserTypeCreator:
		_, err = s.db.Exec(ctx, `
			UPDATE creator_profiles SET
				display_name = COALESCE($1, display_name),
				bio = COALESCE($2, bio),
				avatar_url = COALESCE($3, avatar_url),
				tiktok_username = COALESCE($4, tiktok_username),
				tiktok_verified = CASE WHEN $4 IS NOT NULL AND $4 IS DISTINCT FROM tiktok_username THEN FALSE ELSE tiktok_verified END,
				instagram_username = COALESCE($5, instagram_username),
				instagram_verified = CASE WHEN $5 IS NOT NULL AND $5 IS DISTINCT FROM instagram_username THEN FALSE ELSE instagram_verified END,
				updated_at = NOW()
			WHERE user_id = $6
		`, req.DisplayName, req.Bio, req.AvatarURL, req.TikTokUsername, req.InstagramUsername, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to update creator profile: %w", err)
		}
	case models.UserTypeBrand:
		_, err = s.db.Exec(ctx, `
			UPDATE brand_profiles SET
				company_name = COALESCE($1, company_name),
				website = COALESCE($2, website),
				logo_url = COALESCE($3, logo_url),
				updated_at = NOW()
			WHERE user_id = $4
		`, req.CompanyName, req.Website, req.LogoURL, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to update brand profile: %w", err)
		}
	}

	return s.GetProfile(ctx, userID)
}
