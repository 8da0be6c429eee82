package app

import (
	"context"
	"fmt"
	"time"

	"fleetmon/app/clients"
	"fleetmon/app/handlers"
	"fleetmon/app/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App represents the application
type App struct {
	Config    *Config
	Logger    *zap.Logger
	Storage   clients.StorageAdapter
	Collector *services.CollectorService
	Router    *gin.Engine
}

// Bootstrap initializes the application
func Bootstrap() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	connString := cfg.ConnString()

	store, err := services.OpenStorage(connString, "file://storage/postgres/migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize services
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpirationSec)
	authService := services.NewAuthService(store)
	rates := services.NewRateTracker()
	registry := services.NewRegistryService(store, rates)

	fetcher := clients.NewAgentClient(time.Duration(cfg.FetchTimeoutSec) * time.Second)
	collector := services.NewCollectorService(
		store, fetcher, rates, logger,
		time.Duration(cfg.PollIntervalSec)*time.Second,
		time.Duration(cfg.FetchTimeoutSec)*time.Second,
		cfg.MaxInflightFetches,
	)

	// Initialize HTTP handlers
	computerHandler := handlers.NewComputerHandler(registry, store)
	authHandler := handlers.NewAuthHandler(authService, jwtService)
	healthHandler := handlers.NewHealthHandler(store)

	// Setup HTTP router
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(router, computerHandler, authHandler, healthHandler)

	// Start stat retention job
	go startRetentionJob(store, logger, cfg.StatRetentionDays)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Storage:   store,
		Collector: collector,
		Router:    router,
	}

	return app, nil
}

// setupRoutes configures HTTP routes
func setupRoutes(
	router *gin.Engine,
	computerHandler *handlers.ComputerHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Session endpoints
	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/change_password", authHandler.RequireSession(), authHandler.ChangePassword)
	}

	// Dashboard API, session required
	api := router.Group("/api", authHandler.RequireSession())
	{
		api.GET("/computers", computerHandler.ListComputers)
		api.GET("/stats/:id", computerHandler.LatestStats)
		api.GET("/history/:id", computerHandler.History)
		api.GET("/network_graph/:id", computerHandler.NetworkGraph)
		api.GET("/cpu_graph/:id", computerHandler.CPUGraph)
		api.GET("/processes/:id", computerHandler.Processes)
		api.POST("/add_computer", computerHandler.AddComputer)
		api.DELETE("/remove_computer/:id", computerHandler.RemoveComputer)
	}
}

// startRetentionJob runs periodic pruning of old stat samples
func startRetentionJob(storage clients.StorageAdapter, logger *zap.Logger, retentionDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		olderThan := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := storage.PruneStats(ctx, olderThan)
		if err != nil {
			logger.Error("stat retention job failed", zap.Error(err))
		} else if deleted > 0 {
			logger.Info("pruned old stat samples", zap.Int64("rows", deleted))
		}
		cancel()
	}
}
