package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igotstrelkov/clippin/internal/campaign"
	apierrors "github.com/igotstrelkov/clippin/internal/errors"
	"github.com/igotstrelkov/clippin/internal/models"
)

// handleSearchCampaigns lists active campaigns with optional category,
// free-text and sort query parameters
func (s *APIServer) handleSearchCampaigns(c *gin.Context) {
	category := c.DefaultQuery("category", campaign.CategoryAll)
	query := c.Query("q")
	sortKey := campaign.ParseSortKey(c.DefaultQuery("sort", "newest"))

	results, err := s.campaignService.SearchMarketplace(c.Request.Context(), category, query, sortKey)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": results,
		"total":     len(results),
	})
}

// handleGetPublicCampaign returns a single active campaign
func (s *APIServer) handleGetPublicCampaign(c *gin.Context) {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := s.campaignService.GetCampaignByID(c.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrCampaignNotFound) {
			respondError(c, apierrors.ErrCampaignNotFoundError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	// Drafts and paused campaigns are not public
	if result.Status != models.CampaignStatusActive && result.Status != models.CampaignStatusCompleted {
		respondError(c, apierrors.ErrCampaignNotFoundError)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleGetCategories returns the campaign category list
func (s *APIServer) handleGetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}

// handleCreateCampaign creates a draft campaign for the brand
func (s *APIServer) handleCreateCampaign(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	result, err := s.campaignService.CreateCampaign(c.Request.Context(), brandID, &req)
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrInvalidCategory):
			respondError(c, apierrors.NewValidationError("Invalid campaign category"))
		case errors.Is(err, campaign.ErrInvalidCPMRate):
			respondError(c, apierrors.NewValidationError("CPM rate must be positive"))
		case errors.Is(err, campaign.ErrInvalidBudget):
			respondError(c, apierrors.NewValidationError("Total budget must cover at least one max payout"))
		default:
			respondError(c, apierrors.NewInvalidRequestError("Failed to create campaign"))
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// handleListBrandCampaigns returns the brand's campaigns partitioned by status
func (s *APIServer) handleListBrandCampaigns(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := s.campaignService.ListBrandCampaigns(c.Request.Context(), brandID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleUpdateCampaign updates campaign fields; budgets are immutable
func (s *APIServer) handleUpdateCampaign(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req campaign.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	result, err := s.campaignService.UpdateCampaign(c.Request.Context(), brandID, campaignID, &req)
	if err != nil {
		respondCampaignError(c, err, "Failed to update campaign")
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleDeleteCampaign deletes a campaign. The destructive call only fires
// with an explicit ?confirm=true, and is refused while pending submissions
// exist.
func (s *APIServer) handleDeleteCampaign(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if c.Query("confirm") != "true" {
		respondError(c, apierrors.NewInvalidRequestError("Deletion requires confirm=true"))
		return
	}

	if err := s.campaignService.DeleteCampaign(c.Request.Context(), brandID, campaignID); err != nil {
		if errors.Is(err, campaign.ErrHasPendingSubmissions) {
			respondError(c, apierrors.NewInvalidRequestError("Cannot delete a campaign with pending submissions"))
		} else {
			respondCampaignError(c, err, "Failed to delete campaign")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// handlePublishCampaign transitions a draft or paused campaign to active
func (s *APIServer) handlePublishCampaign(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := s.campaignService.PublishCampaign(c.Request.Context(), brandID, campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrCampaignNotDraft) {
			respondError(c, apierrors.NewInvalidRequestError("Only draft or paused campaigns can be published"))
		} else {
			respondCampaignError(c, err, "Failed to publish campaign")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// handlePauseCampaign transitions an active campaign to paused
func (s *APIServer) handlePauseCampaign(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := s.campaignService.PauseCampaign(c.Request.Context(), brandID, campaignID)
	if err != nil {
		if errors.Is(err, campaign.ErrCampaignNotActive) {
			respondError(c, apierrors.NewInvalidRequestError("Only active campaigns can be paused"))
		} else {
			respondCampaignError(c, err, "Failed to pause campaign")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleBrandStats returns aggregate spend/view/submission stats for a brand
func (s *APIServer) handleBrandStats(c *gin.Context) {
	brandID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := s.campaignService.GetBrandStats(c.Request.Context(), brandID)
	if err != nil {
		respondError(c, apierrors.ErrInternalServerError)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondCampaignError maps the common campaign sentinels, with a per-action
// fallback message for everything else
func respondCampaignError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, campaign.ErrCampaignNotFound):
		respondError(c, apierrors.ErrCampaignNotFoundError)
	case errors.Is(err, campaign.ErrCampaignNotOwned):
		respondError(c, apierrors.ErrForbiddenError)
	default:
		respondError(c, apierrors.NewInvalidRequestError(fallback))
	}
}
