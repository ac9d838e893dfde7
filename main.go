package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"linkly-be/internal/cache"
	"linkly-be/internal/config"
	"linkly-be/internal/controllers"
	"linkly-be/internal/database"
	"linkly-be/internal/jwt"
	"linkly-be/internal/middleware"
	"linkly-be/internal/repository"
	"linkly-be/internal/service"
	"linkly-be/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; redirects fall back to the database without it
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
			defer cacheClient.Close()
		}
	}

	// Initialize repositories
	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	userRepo := repository.NewUserRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTL)*time.Hour)

	// Clicks are recorded inline unless a worker pool is configured
	var recorder service.ClickRecorder
	var clickPool *worker.Pool
	if cfg.ClickWorkers > 0 {
		clickPool = worker.New(cfg.ClickWorkers, cfg.ClickQueueSize, clickRepo, cfg.StoreTimeout)
		clickPool.Start()
		recorder = clickPool
		log.Printf("Recording clicks with %d workers (queue size %d)", cfg.ClickWorkers, cfg.ClickQueueSize)
	}

	// Initialize services
	linkService := service.NewLinkService(linkRepo, clickRepo, cacheClient, service.LinkServiceOptions{
		Allocation:   cfg.Allocation,
		Recorder:     recorder,
		LandingURL:   cfg.LandingURL,
		CacheTTL:     cfg.CacheTTL,
		StoreTimeout: cfg.StoreTimeout,
	})
	authService := service.NewAuthService(userRepo, jwtService)

	// Initialize controllers
	shortenerController := controllers.NewShortenerController(linkService, cfg.BaseURL)
	authController := controllers.NewAuthController(authService)
	qrcodeController := controllers.NewQRCodeController(cfg.BaseURL)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	shortenRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitShortenRPS), cfg.RateLimitShortenBurst)
	redirectRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)
	for _, rl := range []*middleware.RateLimiter{generalRateLimiter, authRateLimiter, shortenRateLimiter, redirectRateLimiter} {
		defer rl.Close()
	}

	router := gin.Default()
	// Rate limiting keys on c.ClientIP(); forwarding headers count only from these proxies
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/:shortCode", redirectRateLimiter.LimitMiddleware(), shortenerController.Redirect)

	api := router.Group("/api/v1")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		auth := api.Group("/auth")
		auth.Use(authRateLimiter.LimitMiddleware())
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		links := api.Group("/links")
		links.Use(middleware.AuthMiddleware(authService))
		{
			links.POST("", shortenRateLimiter.LimitMiddleware(), shortenerController.CreateLink)
			links.GET("", shortenerController.ListLinks)
			links.GET("/:id", shortenerController.GetLink)
			links.DELETE("/:id", shortenerController.DeleteLink)
			links.GET("/:id/analytics", shortenerController.GetAnalytics)
		}

		api.GET("/qrcode/:shortCode", qrcodeController.GenerateQRCode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Handlers are done, so no new clicks can arrive
	if clickPool != nil {
		clickPool.Stop()
		log.Println("Click queue drained")
	}
	log.Println("Server exited")
}
