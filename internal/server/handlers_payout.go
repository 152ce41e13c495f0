package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/igotstrelkov/clippin/internal/errors"
	"github.com/igotstrelkov/clippin/internal/payout"
	"github.com/igotstrelkov/clippin/internal/stripeconnect"
)

// handlePendingEarnings returns the creator's balances and eligible
// (approved, unpaid) submissions
func (s *APIServer) handlePendingEarnings(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := s.payoutService.GetEarningsSummary(c.Request.Context(), creatorID)
	if err != nil {
		if errors.Is(err, payout.ErrCreatorNotFound) {
			respondError(c, apierrors.ErrUserNotFoundError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// handlePayoutHistory returns the creator's payout history
func (s *APIServer) handlePayoutHistory(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	payouts, err := s.payoutService.ListForCreator(c.Request.Context(), creatorID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payouts": payouts,
		"total":   len(payouts),
	})
}

// handleGetPayout returns one payout with the submissions it bundled
func (s *APIServer) handleGetPayout(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	payoutID, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := s.payoutService.GetPayoutByID(c.Request.Context(), payoutID)
	if err != nil || p.CreatorID != creatorID {
		respondError(c, apierrors.ErrPayoutNotFoundError)
		return
	}

	submissions, err := s.payoutService.ListSubmissionsForPayout(c.Request.Context(), payoutID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payout":      p,
		"submissions": submissions,
	})
}

// handleRequestPayout creates an aggregate payout over the selected
// submissions
func (s *APIServer) handleRequestPayout(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req payout.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	result, err := s.payoutService.RequestPayout(c.Request.Context(), creatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, payout.ErrNothingSelected):
			respondError(c, apierrors.NewValidationError("Select at least one submission"))
		case errors.Is(err, payout.ErrBelowMinimumAmount):
			respondError(c, apierrors.NewInvalidRequestError("Payout amount is below the minimum"))
		case errors.Is(err, payout.ErrAmountMismatch):
			respondError(c, apierrors.NewInvalidRequestError("Requested amount does not match the selected submissions"))
		case errors.Is(err, payout.ErrSubmissionNotEligible):
			respondError(c, apierrors.NewInvalidRequestError("One or more selected submissions are not eligible"))
		case errors.Is(err, payout.ErrStripeNotReady):
			respondError(c, apierrors.NewInvalidRequestError("Complete Stripe onboarding before requesting a payout"))
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to request payout"))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payout requested",
		"payout":  result,
	})
}

// handleCreateConnectAccount creates a Stripe Express account for the creator
func (s *APIServer) handleCreateConnectAccount(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := s.authService.GetUserByID(c.Request.Context(), creatorID)
	if err != nil {
		respondError(c, apierrors.ErrUserNotFoundError)
		return
	}

	accountID, err := s.connectService.CreateAccount(c.Request.Context(), creatorID, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, stripeconnect.ErrAccountExists):
			respondError(c, apierrors.NewInvalidRequestError("A Stripe account is already connected"))
		case errors.Is(err, stripeconnect.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.NewPaymentProviderError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account_id": accountID})
}

// handleCreateOnboardingLink creates a hosted Stripe onboarding link
func (s *APIServer) handleCreateOnboardingLink(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	link, err := s.connectService.CreateOnboardingLink(c.Request.Context(), creatorID)
	if err != nil {
		switch {
		case errors.Is(err, stripeconnect.ErrNoStripeAccount):
			respondError(c, apierrors.NewInvalidRequestError("Create a Stripe account first"))
		case errors.Is(err, stripeconnect.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.NewPaymentProviderError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, link)
}

// handleConnectStatus fetches and persists the connected account's state
func (s *APIServer) handleConnectStatus(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := s.connectService.GetAccountStatus(c.Request.Context(), creatorID)
	if err != nil {
		switch {
		case errors.Is(err, stripeconnect.ErrNoStripeAccount):
			respondError(c, apierrors.NewInvalidRequestError("No Stripe account connected"))
		case errors.Is(err, stripeconnect.ErrProfileNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.NewPaymentProviderError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, status)
}
