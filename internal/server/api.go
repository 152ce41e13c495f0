package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igotstrelkov/clippin/internal/auth"
	"github.com/igotstrelkov/clippin/internal/cache"
	"github.com/igotstrelkov/clippin/internal/campaign"
	"github.com/igotstrelkov/clippin/internal/config"
	apierrors "github.com/igotstrelkov/clippin/internal/errors"
	"github.com/igotstrelkov/clippin/internal/logging"
	"github.com/igotstrelkov/clippin/internal/middleware"
	"github.com/igotstrelkov/clippin/internal/models"
	"github.com/igotstrelkov/clippin/internal/monitoring"
	"github.com/igotstrelkov/clippin/internal/notify"
	"github.com/igotstrelkov/clippin/internal/payout"
	"github.com/igotstrelkov/clippin/internal/stripeconnect"
	"github.com/igotstrelkov/clippin/internal/submission"
	"github.com/igotstrelkov/clippin/internal/verification"
)

// APIServer represents the main API server
type APIServer struct {
	config           *config.Config
	router           *gin.Engine
	db               *pgxpool.Pool
	jwtAuthenticator *middleware.JWTAuthenticator

	authService         *auth.Service
	campaignService     *campaign.Service
	submissionService   *submission.Service
	payoutService       *payout.Service
	connectService      *stripeconnect.Service
	verificationService *verification.Service
}

// NewAPIServer creates a new API server instance with all services wired
func NewAPIServer(cfg *config.Config, db *pgxpool.Pool, rdb *cache.Redis) *APIServer {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(monitoring.MetricsMiddleware())
	router.Use(logging.RequestLogger())

	notifier := notify.NewRedisNotifier(rdb.Client)
	payoutCfg := &models.PayoutConfig{MinimumAmountCents: cfg.Payout.MinimumAmountCents}

	srv := &APIServer{
		config:              cfg,
		router:              router,
		db:                  db,
		jwtAuthenticator:    middleware.NewJWTAuthenticator(&cfg.JWT),
		authService:         auth.NewService(db, &cfg.JWT),
		campaignService:     campaign.NewService(db, rdb),
		submissionService:   submission.NewService(db, notifier),
		payoutService:       payout.NewService(db, payoutCfg, notifier),
		connectService:      stripeconnect.NewService(db, &cfg.Stripe, cfg.Server.URL),
		verificationService: verification.NewService(db, verification.NewHTTPBioFetcher()),
	}

	srv.setupRoutes()
	return srv
}

// Router returns the gin router
func (s *APIServer) Router() http.Handler {
	return s.router
}

// PayoutService exposes the payout service so the transfer scheduler can be
// built on the same instance
func (s *APIServer) PayoutService() *payout.Service {
	return s.payoutService
}

// ConnectService exposes the Stripe Connect service
func (s *APIServer) ConnectService() *stripeconnect.Service {
	return s.connectService
}

// setupRoutes configures all API routes
func (s *APIServer) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/logout", s.handleLogout)
			authGroup.POST("/refresh", s.handleRefresh)
		}

		// Marketplace routes (public)
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("/campaigns", s.handleSearchCampaigns)
			marketplace.GET("/campaigns/:id", s.handleGetPublicCampaign)
			marketplace.GET("/categories", s.handleGetCategories)
		}

		// Profile (any authenticated user)
		profile := v1.Group("/profile")
		profile.Use(s.jwtAuthenticator.JWTAuth())
		{
			profile.GET("/me", s.handleGetProfile)
			profile.PUT("/me", s.handleUpdateProfile)
		}

		// Campaign management (brand)
		campaigns := v1.Group("/campaigns")
		campaigns.Use(s.jwtAuthenticator.JWTAuth())
		{
			campaigns.GET("", middleware.RequireBrand(), s.handleListBrandCampaigns)
			campaigns.POST("", middleware.RequireBrand(), s.handleCreateCampaign)
			campaigns.PUT("/:id", middleware.RequireBrand(), s.handleUpdateCampaign)
			campaigns.DELETE("/:id", middleware.RequireBrand(), s.handleDeleteCampaign)
			campaigns.POST("/:id/publish", middleware.RequireBrand(), s.handlePublishCampaign)
			campaigns.POST("/:id/pause", middleware.RequireBrand(), s.handlePauseCampaign)

			// Creator submits against a campaign
			campaigns.POST("/:id/submissions", middleware.RequireCreator(), s.handleCreateSubmission)
		}

		// Brand dashboard
		brand := v1.Group("/brand")
		brand.Use(s.jwtAuthenticator.JWTAuth())
		brand.Use(middleware.RequireBrand())
		{
			brand.GET("/stats", s.handleBrandStats)
			brand.GET("/submissions", s.handleListBrandSubmissions)
		}

		// Submissions (creator list, brand review)
		submissions := v1.Group("/submissions")
		submissions.Use(s.jwtAuthenticator.JWTAuth())
		{
			submissions.GET("", middleware.RequireCreator(), s.handleListCreatorSubmissions)
			submissions.PUT("/:id/status", middleware.RequireBrand(), s.handleReviewSubmission)
		}

		// Payouts (creator)
		payouts := v1.Group("/payouts")
		payouts.Use(s.jwtAuthenticator.JWTAuth())
		payouts.Use(middleware.RequireCreator())
		{
			payouts.GET("/pending-earnings", s.handlePendingEarnings)
			payouts.GET("/history", s.handlePayoutHistory)
			payouts.GET("/:id", s.handleGetPayout)
			payouts.POST("", s.handleRequestPayout)
		}

		// Social account verification (creator)
		verify := v1.Group("/verification")
		verify.Use(s.jwtAuthenticator.JWTAuth())
		verify.Use(middleware.RequireCreator())
		{
			verify.POST("/:platform/generate", s.handleGenerateVerificationCode)
			verify.POST("/:platform/verify", s.handleVerifyBio)
		}

		// Stripe Connect onboarding (creator)
		connect := v1.Group("/connect")
		connect.Use(s.jwtAuthenticator.JWTAuth())
		connect.Use(middleware.RequireCreator())
		{
			connect.POST("/account", s.handleCreateConnectAccount)
			connect.POST("/onboarding-link", s.handleCreateOnboardingLink)
			connect.GET("/status", s.handleConnectStatus)
		}
	}
}

// Health check handler
func (s *APIServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "api",
	})
}

// handleRegister handles user registration
func (s *APIServer) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case auth.ErrEmailAlreadyExists:
			respondError(c, apierrors.NewInvalidRequestError("Email already registered"))
		case auth.ErrDisplayNameRequired:
			respondError(c, apierrors.NewValidationError("Display name is required for creators"))
		case auth.ErrCompanyNameRequired:
			respondError(c, apierrors.NewValidationError("Company name is required for brands"))
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// handleLogin handles user login
func (s *APIServer) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			respondError(c, apierrors.ErrInvalidCredentialsError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleLogout handles user logout
func (s *APIServer) handleLogout(c *gin.Context) {
	// Stateless JWT: logout is handled client-side by dropping the tokens
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// handleRefresh handles token refresh
func (s *APIServer) handleRefresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	tokens, err := s.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrInvalidToken:
			respondError(c, apierrors.ErrInvalidCredentialsError)
		case auth.ErrTokenExpired:
			respondError(c, apierrors.ErrTokenExpiredError)
		case auth.ErrUserNotFound:
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// respondError sends a standardized error response
func respondError(c *gin.Context, err *apierrors.APIError) {
	requestID := middleware.GetRequestIDFromContext(c)
	c.JSON(err.HTTPStatus, apierrors.NewErrorResponse(err, requestID))
}

// currentUserID extracts the authenticated user's ID from the request
// context. A missing or malformed ID means the auth middleware did not run.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr := middleware.GetUserIDFromContext(c)
	if idStr == "" {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apierrors.NewValidationError("Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}
