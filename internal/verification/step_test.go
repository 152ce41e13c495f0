package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/igotstrelkov/clippin/internal/models"
)

func strPtr(s string) *string { return &s }

func TestDeriveStep(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.CreatorProfile
		platform Platform
		want     Step
	}{
		{
			name:     "no username",
			profile:  models.CreatorProfile{},
			platform: PlatformInstagram,
			want:     StepUsername,
		},
		{
			name:     "empty username",
			profile:  models.CreatorProfile{InstagramUsername: strPtr("")},
			platform: PlatformInstagram,
			want:     StepUsername,
		},
		{
			name:     "username set, no code",
			profile:  models.CreatorProfile{InstagramUsername: strPtr("alice")},
			platform: PlatformInstagram,
			want:     StepGenerate,
		},
		{
			name: "code generated, awaiting bio",
			profile: models.CreatorProfile{
				InstagramUsername: strPtr("alice"),
				VerificationCode:  strPtr("clippin-ABCD2345"),
			},
			platform: PlatformInstagram,
			want:     StepBio,
		},
		{
			name: "verified",
			profile: models.CreatorProfile{
				InstagramUsername: strPtr("alice"),
				InstagramVerified: true,
			},
			platform: PlatformInstagram,
			want:     StepSuccess,
		},
		{
			name: "verified wins even with stale code",
			profile: models.CreatorProfile{
				InstagramUsername: strPtr("alice"),
				InstagramVerified: true,
				VerificationCode:  strPtr("clippin-ABCD2345"),
			},
			platform: PlatformInstagram,
			want:     StepSuccess,
		},
		{
			name: "platforms tracked independently",
			profile: models.CreatorProfile{
				InstagramUsername: strPtr("alice"),
				InstagramVerified: true,
				TikTokUsername:    strPtr("alice_tt"),
			},
			platform: PlatformTikTok,
			want:     StepGenerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStep(&tt.profile, tt.platform))
		})
	}
}

// A failed verify attempt leaves the code in place, so rechecking the derived
// step still lands on bio rather than restarting the handshake.
func TestDeriveStepStableAcrossFailedAttempt(t *testing.T) {
	profile := models.CreatorProfile{
		InstagramUsername: strPtr("alice"),
		VerificationCode:  strPtr("clippin-ABCD2345"),
		VerificationError: strPtr("Verification code not found in your bio"),
	}
	assert.Equal(t, StepBio, DeriveStep(&profile, PlatformInstagram))
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("Instagram")
	assert.NoError(t, err)
	assert.Equal(t, PlatformInstagram, p)

	p, err = ParsePlatform("tiktok")
	assert.NoError(t, err)
	assert.Equal(t, PlatformTikTok, p)

	_, err = ParsePlatform("youtube")
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}
