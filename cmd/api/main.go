package main

import (
	"fmt"
	"net/http"
	"os"

	"rupeeready/internal/alerts"
	"rupeeready/internal/config"
	"rupeeready/internal/database"
	"rupeeready/internal/googleauth"
	"rupeeready/internal/handlers"
	"rupeeready/internal/logger"
	"rupeeready/internal/middleware"
	"rupeeready/internal/profilestore"
	"rupeeready/internal/services"
	"rupeeready/internal/spendguard"
	"rupeeready/internal/summary"
	"rupeeready/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           RupeeReady API
// @version         1.0
// @description     RupeeReady helps gig workers and freelancers manage irregular income, automatically reserving a tax share of every payment into a dedicated vault.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	profiles := profilestore.New(db, appConfig.ProfileFetchRetries, appConfig.ProfileFetchBackoff)
	engine := summary.NewEngine(summary.StaticBills(appConfig.UpcomingBills))
	alertService := alerts.NewService(alerts.NewGenerator(appConfig.LowBalanceThreshold))

	var guard *spendguard.Client
	if appConfig.SpendGuardURL != "" {
		guard = spendguard.NewClient(appConfig.SpendGuardURL, appConfig.SpendGuardTimeout)
	}

	verifier := googleauth.NewHTTPVerifier(appConfig.GoogleClientID)
	sessionService := services.NewSessionService(db, profiles, verifier, alertService, appConfig.SessionTimeout)
	ledgerService := services.NewLedgerService(db, profiles, guard, engine, alertService,
		appConfig.TaxReserveRate, appConfig.SpendGuardTimeout)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessionService)
	profileHandler := handlers.NewProfileHandler(sessionService)
	summaryHandler := handlers.NewSummaryHandler(sessionService, engine)
	alertHandler := handlers.NewAlertHandler(ledgerService, alertService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	goalHandler := handlers.NewGoalHandler(ledgerService)
	vaultHandler := handlers.NewVaultHandler(ledgerService)
	webhookHandler := handlers.NewWebhookHandler(ledgerService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google", authHandler.LoginWithGoogle)

	// Webhook routes (API-key protected, no user session)
	webhooks := v1.Group("/webhook")
	webhooks.Use(middleware.WebhookAuthMiddleware(appConfig.WebhookAPIKey))
	webhooks.POST("/income", webhookHandler.ReceiveIncome)

	// Protected routes: every request validates and extends the session window
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(sessionService))

	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PATCH("/profile", profileHandler.UpdateProfile)

	protected.GET("/summary", summaryHandler.GetSummary)

	alertRoutes := protected.Group("/alerts")
	alertRoutes.GET("", alertHandler.ListAlerts)
	alertRoutes.POST("/refresh", alertHandler.RefreshAlerts)
	alertRoutes.DELETE("/:id", alertHandler.DismissAlert)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.PATCH("/:id", goalHandler.UpdateGoal)

	vault := protected.Group("/vault")
	vault.POST("/move", vaultHandler.MoveToVault)
	vault.POST("/release", vaultHandler.ReleaseFromVault)
	vault.POST("/pay-tax", vaultHandler.PayTaxFromVault)

	log.Infof("Starting RupeeReady backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
