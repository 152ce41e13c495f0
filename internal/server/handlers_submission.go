package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/igotstrelkov/clippin/internal/errors"
	"github.com/igotstrelkov/clippin/internal/logging"
	"github.com/igotstrelkov/clippin/internal/middleware"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/submission"
)

// handleCreateSubmission submits a TikTok video link against a campaign
func (s *APIServer) handleCreateSubmission(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submission.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	result, err := s.submissionService.CreateSubmission(c.Request.Context(), creatorID, campaignID, &req)
	if err != nil {
		switch {
		case errors.Is(err, submission.ErrInvalidVideoURL):
			respondError(c, apierrors.NewValidationError("Video URL must be a TikTok video link"))
		case errors.Is(err, submission.ErrCampaignNotFound):
			respondError(c, apierrors.ErrCampaignNotFoundError)
		case errors.Is(err, submission.ErrCampaignNotActive):
			respondError(c, apierrors.NewInvalidRequestError("Campaign is not accepting submissions"))
		case errors.Is(err, submission.ErrCreatorNotVerified):
			respondError(c, apierrors.NewInvalidRequestError("Verify a social account before submitting"))
		case errors.Is(err, submission.ErrDuplicateSubmission):
			respondError(c, apierrors.ErrDuplicateSubmissionError)
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to submit video"))
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// handleListCreatorSubmissions returns the creator's submissions, newest first
func (s *APIServer) handleListCreatorSubmissions(c *gin.Context) {
	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	results, err := s.submissionService.ListForCreator(c.Request.Context(), creatorID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": results,
		"total":       len(results),
	})
}

// handleListBrandSubmissions returns submissions across the brand's
// campaigns, partitioned into pending and reviewed
func (s *APIServer) handleListBrandSubmissions(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}

	results, err := s.submissionService.ListForBrand(c.Request.Context(), brandID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, submission.Partition(results))
}

// handleReviewSubmission approves or rejects a pending submission
func (s *APIServer) handleReviewSubmission(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submission.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	result, err := s.submissionService.Review(c.Request.Context(), brandID, submissionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, submission.ErrSubmissionNotFound):
			respondError(c, apierrors.ErrSubmissionNotFoundError)
		case errors.Is(err, submission.ErrSubmissionNotOwned):
			respondError(c, apierrors.ErrForbiddenError)
		case errors.Is(err, submission.ErrSubmissionNotPending):
			respondError(c, apierrors.NewInvalidRequestError("Submission has already been reviewed"))
		case errors.Is(err, submission.ErrRejectionReasonRequired):
			respondError(c, apierrors.NewValidationError("A rejection reason is required"))
		case errors.Is(err, submission.ErrInvalidViewCount):
			respondError(c, apierrors.NewValidationError("View count is out of range"))
		case errors.Is(err, submission.ErrBudgetExhausted):
			respondError(c, apierrors.NewInvalidRequestError("Campaign budget cannot cover this submission"))
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to review submission"))
		}
		return
	}

	// An approval may have drained the budget below a single view's worth.
	// The review itself is already committed, so a completion failure is
	// logged rather than reported as a review failure.
	if result.Status == models.SubmissionStatusApproved {
		if err := s.campaignService.CompleteIfExhausted(c.Request.Context(), result.CampaignID); err != nil {
			logging.LogError(err, middleware.GetRequestIDFromContext(c), "server", "complete_campaign")
		}
	}

	c.JSON(http.StatusOK, result)
}
