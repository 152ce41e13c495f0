package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igotstrelkov/clippin/internal/auth"
	apierrors "github.com/igotstrelkov/clippin/internal/errors"
	"github.com/igotstrelkov/clippin/internal/verification"
)

// handleGetProfile returns the authenticated user's profile. A pending
// verification error is surfaced exactly once: it is cleared after this
// fetch returns it.
func (s *APIServer) handleGetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := s.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	if profile.Creator != nil && profile.Creator.VerificationError != nil {
		if err := s.verificationService.ClearError(c.Request.Context(), userID); err != nil {
			respondError(c, apierrors.ErrInternalServerError)
			return
		}
	}

	c.JSON(http.StatusOK, profile)
}

// handleUpdateProfile updates the role-specific profile fields
func (s *APIServer) handleUpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req auth.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	profile, err := s.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			respondError(c, apierrors.NewInvalidRequestError("Failed to update profile"))
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// handleGenerateVerificationCode creates a bio verification code for the
// requested platform
func (s *APIServer) handleGenerateVerificationCode(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	platform, err := verification.ParsePlatform(c.Param("platform"))
	if err != nil {
		respondError(c, apierrors.NewValidationError("Platform must be instagram or tiktok"))
		return
	}

	code, err := s.verificationService.GenerateCode(c.Request.Context(), creatorID, platform)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrUsernameNotSet):
			respondError(c, apierrors.NewInvalidRequestError("Set your username for this platform first"))
		case errors.Is(err, verification.ErrAlreadyVerified):
			respondError(c, apierrors.NewInvalidRequestError("This account is already verified"))
		case errors.Is(err, verification.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to generate verification code"))
		}
		return
	}

	step, err := s.verificationService.GetStep(c.Request.Context(), creatorID, platform)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": code,
		"step": step,
	})
}

// handleVerifyBio fetches the account bio and compares it to the stored code
func (s *APIServer) handleVerifyBio(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	platform, err := verification.ParsePlatform(c.Param("platform"))
	if err != nil {
		respondError(c, apierrors.NewValidationError("Platform must be instagram or tiktok"))
		return
	}

	result, err := s.verificationService.VerifyBio(c.Request.Context(), creatorID, platform)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrUsernameNotSet):
			respondError(c, apierrors.NewInvalidRequestError("Set your username for this platform first"))
		case errors.Is(err, verification.ErrNoCodeGenerated):
			respondError(c, apierrors.NewInvalidRequestError("Generate a verification code first"))
		case errors.Is(err, verification.ErrAlreadyVerified):
			respondError(c, apierrors.NewInvalidRequestError("This account is already verified"))
		case errors.Is(err, verification.ErrCodeNotInBio):
			respondError(c, apierrors.NewInvalidRequestError("Verification code not found in your bio"))
		case errors.Is(err, verification.ErrBioFetchFailed):
			respondError(c, apierrors.NewInvalidRequestError("Could not read your bio. Make sure the account is public."))
		case errors.Is(err, verification.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to verify bio"))
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
