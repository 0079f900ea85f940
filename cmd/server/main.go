// @title Campaign Dashboard API
// @version 1.0
// @description Backend API aggregating outreach campaign analytics across workspaces
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"campaigndash-be/config"
	"campaigndash-be/internal/aggregator"
	"campaigndash-be/internal/catalog"
	"campaigndash-be/internal/handlers"
	"campaigndash-be/internal/middleware"
	"campaigndash-be/internal/store"
	"campaigndash-be/internal/upstream"
	"campaigndash-be/internal/workspace"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "campaigndash-be/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	// Stores
	userStore := store.NewUserStore(cfg.DataDir, logger)
	dashboardStore := store.NewDashboardStore(cfg.DataDir, logger)

	// Upstream plumbing
	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	creds := workspace.NewResolver(cfg)
	cat := catalog.New(client, creds, logger)
	agg := aggregator.New(client, cat, creds, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, userStore, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(agg, logger)
	emailHandler := handlers.NewEmailHandler(agg, logger)
	leadHandler := handlers.NewLeadHandler(agg, logger)
	userHandler := handlers.NewUserHandler(userStore, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardStore, logger)

	// Initialize Gin
	r := gin.Default()
	r.Use(middleware.CORS(cfg))

	// Public routes
	public := r.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Campaign Dashboard API is running",
			})
		})

		public.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authHandler.Me)

		// Analytics
		protected.GET("/unified-analytics", analyticsHandler.UnifiedAnalytics)
		protected.GET("/daily-analytics", analyticsHandler.DailyAnalytics)
		protected.GET("/campaigns-analytics", analyticsHandler.CampaignsAnalytics)
		protected.GET("/campaigns/breakdown", analyticsHandler.CampaignBreakdown)
		protected.GET("/steps", analyticsHandler.StepAnalytics)
		protected.GET("/campaigns-by-workspace", analyticsHandler.CampaignsByWorkspace)

		// Emails
		protected.GET("/emails", emailHandler.ListEmails)
		protected.GET("/email-templates", emailHandler.EmailTemplates)

		// Leads
		protected.POST("/leads-inbox", leadHandler.LeadsInbox)
		protected.GET("/leads", leadHandler.Leads)
		protected.POST("/positive-responses", leadHandler.PositiveResponses)

		// Dashboards
		protected.POST("/create-dashboard", dashboardHandler.Create)
		protected.GET("/dashboards", dashboardHandler.List)
		protected.DELETE("/dashboards/:id", dashboardHandler.Delete)

		// Admin-only user management
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)
		}
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
