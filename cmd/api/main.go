package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nabih-app/nabih-api/internal/cache"
	"github.com/nabih-app/nabih-api/internal/config"
	"github.com/nabih-app/nabih-api/internal/database"
	"github.com/nabih-app/nabih-api/internal/handler"
	"github.com/nabih-app/nabih-api/internal/middleware"
	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/repository"
	"github.com/nabih-app/nabih-api/internal/service"
	"github.com/nabih-app/nabih-api/internal/utils"
	"github.com/nabih-app/nabih-api/internal/worker"
	"github.com/nabih-app/nabih-api/pkg/genai"
)

// main is the application entrypoint for the Nabih API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env, cfg.LogFile)
	log.Info().Str("env", cfg.Env).Msg("starting nabih api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize search cache (first tier)
	searchCache := cache.NewSearchCache(redisClient, cfg.Search.CacheTTL)

	// 4. Initialize LLM search client
	genaiClient := genai.NewClient(genai.Config{
		BaseURL: cfg.GenAI.BaseURL,
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	merchantRepo := repository.NewMerchantRepository(db)
	adRepo := repository.NewAdRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	historyRepo := repository.NewSearchHistoryRepository(db)
	cacheRepo := repository.NewSearchCacheRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, merchantRepo)
	comparisonSvc := service.NewComparisonService(genaiClient, searchCache, cacheRepo, historyRepo, adRepo, cfg.Search)
	adSvc := service.NewAdService(adRepo, campaignRepo)
	adminSvc := service.NewAdminService(userRepo, merchantRepo, adRepo, campaignRepo, historyRepo, adSvc)

	uploadSvc, err := service.NewUploadService(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("Upload service initialization failed - ad image upload will be disabled")
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(authSvc, middleware.NewInvalidAuthRateLimiter()),
		Search:   handler.NewSearchHandler(comparisonSvc, adSvc),
		Merchant: handler.NewMerchantHandler(adSvc, uploadSvc, merchantRepo),
		Admin:    handler.NewAdminHandler(adminSvc, adSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewCacheCleanupWorker(cacheRepo, cfg.Search.CacheTTL, cfg.Worker.CacheCleanupInterval).Start(ctx)
	go worker.NewAdMetricsWorker(adRepo, cfg.Worker.AdMetricsInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Search   *handler.SearchHandler
	Merchant *handler.MerchantHandler
	Admin    *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public auth endpoints
	router.POST("/v1/auth/register", handlers.Auth.Register)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// Public ad endpoints: click tracking and merchant storefronts
	router.POST("/v1/ads/:id/click", handlers.Search.TrackClick)
	router.GET("/v1/merchants/:id", handlers.Merchant.PublicProfile)

	// Session
	router.GET("/v1/session", jwtMiddleware.Handle(), handlers.Auth.Session)

	// Consumer search
	search := router.Group("/v1/search")
	search.Use(jwtMiddleware.Handle())
	{
		search.POST("/compare", handlers.Search.Compare)
		search.GET("/history", handlers.Search.History)
		search.DELETE("/history", handlers.Search.ClearHistory)
		search.DELETE("/history/:id", handlers.Search.DeleteHistoryItem)
	}

	// Merchant dashboard
	merchant := router.Group("/v1/merchant")
	merchant.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireRole(models.RoleMerchant))
	{
		merchant.GET("/ads", handlers.Merchant.ListAds)
		merchant.POST("/ads", handlers.Merchant.CreateAd)
		merchant.POST("/ads/bulk", handlers.Merchant.BulkCreateAds)
		merchant.PUT("/ads/:id", handlers.Merchant.UpdateAd)
		merchant.PATCH("/ads/:id/status", handlers.Merchant.SetAdStatus)
		merchant.DELETE("/ads/:id", handlers.Merchant.DeleteAd)
		merchant.POST("/campaigns", handlers.Merchant.CreateCampaign)
		merchant.POST("/uploads/ad-image", handlers.Merchant.UploadAdImage)
		merchant.PUT("/profile", handlers.Merchant.UpsertProfile)
	}

	// Admin back office
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/stats", handlers.Admin.Stats)
		admin.GET("/users", handlers.Admin.ListUsers)
		admin.PUT("/users/:id", handlers.Admin.UpdateUser)
		admin.POST("/users/:id/roles", handlers.Admin.ToggleRole)
		admin.PATCH("/users/:id/status", handlers.Admin.SetUserStatus)
		admin.POST("/merchant-requests/:id/review", handlers.Admin.ReviewMerchantRequest)
		admin.GET("/ads", handlers.Admin.ListAds)
		admin.PATCH("/ads/:id/status", handlers.Admin.ReviewAd)
		admin.POST("/ads/bulk-suspend", handlers.Admin.BulkSuspendAds)
		admin.POST("/ads/bulk-remove", handlers.Admin.BulkRemoveAds)
		admin.GET("/search-history", handlers.Admin.GlobalHistory)
		admin.GET("/activity", handlers.Admin.RecentActivity)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env, logFile string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var out io.Writer = os.Stdout
	if logFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
