// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/handlers"
	"github.com/clubhub/ads-backend/internal/middleware"
	"github.com/clubhub/ads-backend/internal/repository"
	"github.com/clubhub/ads-backend/internal/services"
	"github.com/clubhub/ads-backend/internal/utils"
)

// Dependencies are the services the HTTP layer is built on. AuditLog may be nil.
type Dependencies struct {
	AdService      *services.AdService
	PricingService *services.PricingService
	ExportService  *services.ExportService
	Storage        *services.StorageService
	AuditLog       repository.AuditLogRepository
	Version        string
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Initialize handlers
	adHandler := handlers.NewAdHandler(deps.AdService, deps.ExportService)
	pricingHandler := handlers.NewPricingHandler(deps.PricingService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	uploadLimiter := middleware.PerMinute(cfg.RateLimit.UploadsPerMinute)

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.Storage.MaxUploadMB) << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimiter.Middleware())
	if deps.AuditLog != nil {
		r.Use(middleware.AuditLogMiddleware(deps.AuditLog))
	}

	r.GET("/health", handlers.HealthCheck(deps.Version))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Storage != nil {
		mediaHandler := handlers.NewMediaHandler(deps.AdService, deps.Storage)
		r.GET("/media/asset/:id", mediaHandler.GetAsset)
		if !deps.Storage.IsRemote() {
			r.Static(services.LocalURLPrefix, cfg.Storage.UploadDir)
		}
	}

	ads := r.Group("/ads")
	{
		// Public
		public := ads.Group("")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/listing-availability", adHandler.GetListingAvailability)
			public.GET("/website-banners/active", adHandler.GetActiveWebsiteBanners)
			public.GET("/pricing", pricingHandler.GetPricing)
		}

		// Submitters
		submitter := ads.Group("")
		submitter.Use(middleware.AuthRequired())
		{
			submitter.POST("/create", uploadLimiter.Middleware(), adHandler.CreateAd)
			submitter.GET("/get", adHandler.GetAds)
			submitter.GET("/get/:id", adHandler.GetAd)
			submitter.GET("/get/clubs/:club_id", adHandler.GetClubAds)
			submitter.PUT("/update/:id", adHandler.UpdateAd)
			submitter.POST("/:id/submit", adHandler.SubmitAd)
		}

		// Moderation
		approver := ads.Group("")
		approver.Use(middleware.AuthRequired(), middleware.RoleRequired(cfg.Auth.ApproverRoles...))
		{
			approver.POST("/:id/approve", adHandler.ApproveAd)
			approver.POST("/:id/reject", adHandler.RejectAd)
			approver.POST("/:id/activate", adHandler.ActivateAd)
			approver.PUT("/pricing", pricingHandler.UpdatePricing)
			approver.GET("/export", adHandler.ExportBookings)
		}
	}

	return r
}
