package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/auth"
	"github.com/lindenrow/dealdesk-engine/pkg/config"
	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/handlers"
	"github.com/lindenrow/dealdesk-engine/pkg/llm"
	"github.com/lindenrow/dealdesk-engine/pkg/logging"
	"github.com/lindenrow/dealdesk-engine/pkg/metrics"
	"github.com/lindenrow/dealdesk-engine/pkg/middleware"
	"github.com/lindenrow/dealdesk-engine/pkg/repositories"
	"github.com/lindenrow/dealdesk-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("scoring_provider", cfg.Scoring.Provider),
		zap.String("scoring_model", cfg.Scoring.Model))

	ctx := context.Background()

	// Run migrations over database/sql, then open the pgx pool
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional; without it, matching runs are not mutually excluded.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Warn("Redis not configured; concurrent matching runs are not serialized")
	}
	runLock := database.NewRunLock(redisClient, cfg.Matching.RunLockTTL(), logger)

	// Authentication
	authService, err := auth.NewAuthService(ctx, &cfg.Auth, logger)
	if err != nil {
		logger.Fatal("Failed to initialize auth", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Scoring provider
	llmClient, err := llm.NewClient(&llm.Config{
		Provider: cfg.Scoring.Provider,
		Endpoint: cfg.Scoring.Endpoint,
		Model:    cfg.Scoring.Model,
		APIKey:   cfg.Scoring.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create scoring client", zap.Error(err))
	}

	scorer := services.NewFitScorer(llmClient, services.FitScorerConfig{
		MinScore:    cfg.Matching.MinScore,
		Temperature: cfg.Scoring.Temperature,
		Timeout:     cfg.Scoring.Timeout(),
	}, logger)

	// Repositories and services
	engagementRepo := repositories.NewEngagementRepository(db)
	buyerRepo := repositories.NewBuyerRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	activityRepo := repositories.NewActivityLogRepository(db)

	matchMetrics := metrics.New()
	activityRecorder := services.NewActivityRecorder(activityRepo, logger)
	matchService := services.NewMatchService(
		engagementRepo, buyerRepo, matchRepo,
		services.NewCandidateFilter(cfg.Matching.CandidateCap),
		scorer, runLock, activityRecorder, matchMetrics, logger,
	)

	// Routes
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	matchHandler := handlers.NewMatchHandler(matchService, logger)
	matchHandler.RegisterRoutes(mux, authMiddleware)

	mux.Handle("/metrics", metrics.Handler())

	handler := middleware.RequestLogger(logger)(mux)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting dealdesk-engine",
		zap.String("addr", server.Addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
