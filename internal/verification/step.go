package verification

import "github.com/igotstrelkov/clippin/internal/models"

// Step is a position in the bio-code handshake, derived from the profile
type Step string

const (
	StepUsername Step = "username" // no username set for the platform
	StepGenerate Step = "generate" // username set, no code generated yet
	StepBio      Step = "bio"      // code generated, awaiting bio placement
	StepSuccess  Step = "success"  // verified
)

// DeriveStep computes the handshake step for a platform from the profile
// snapshot alone. The step is never stored: recomputing it after every
// mutation keeps the flow in lockstep with backend truth.
func DeriveStep(profile *models.CreatorProfile, platform Platform) Step {
	var username *string
	var verified bool
	switch platform {
	case PlatformTikTok:
		username, verified = profile.TikTokUsername, profile.TikTokVerified
	default:
		username, verified = profile.InstagramUsername, profile.InstagramVerified
	}

	if verified {
		return StepSuccess
	}
	if username == nil || *username == "" {
		return StepUsername
	}
	if profile.VerificationCode == nil || *profile.VerificationCode == "" {
		return StepGenerate
	}
	return StepBio
}
