package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/companyintel/research-api/docs"
	"github.com/companyintel/research-api/internal/apollo"
	"github.com/companyintel/research-api/internal/auth"
	"github.com/companyintel/research-api/internal/config"
	"github.com/companyintel/research-api/internal/coresignal"
	"github.com/companyintel/research-api/internal/database"
	"github.com/companyintel/research-api/internal/email"
	"github.com/companyintel/research-api/internal/http/handler"
	"github.com/companyintel/research-api/internal/http/middleware"
	"github.com/companyintel/research-api/internal/http/router"
	"github.com/companyintel/research-api/internal/jobs"
	"github.com/companyintel/research-api/internal/llm"
	"github.com/companyintel/research-api/internal/logger"
	"github.com/companyintel/research-api/internal/report"
	"github.com/companyintel/research-api/internal/repository"
	"github.com/companyintel/research-api/internal/research"
	"github.com/companyintel/research-api/internal/service"
	"github.com/companyintel/research-api/internal/storage"
	"github.com/companyintel/research-api/internal/tavily"
	"go.uber.org/zap"
)

// @title Company Research API
// @version 1.0
// @description Company research report generation from CoreSignal, Apollo and Tavily data

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for research operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto migrations: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize vendor clients
	coresignalClient := coresignal.NewClient(&cfg.CoreSignal, log)
	apolloClient := apollo.NewClient(&cfg.Apollo, log)
	tavilyClient := tavily.NewClient(&cfg.Tavily, log)

	// Initialize the report model (optional - template fallback without it)
	var writer llm.Writer
	geminiWriter, err := llm.NewGeminiWriter(ctx, &cfg.LLM, log)
	if err != nil {
		log.Warn("Report model initialization failed, continuing with template reports",
			zap.Error(err),
		)
	} else if geminiWriter != nil {
		writer = geminiWriter
		log.Info("Report model initialized", zap.String("model", cfg.LLM.Model))
	}

	// Initialize email sender
	sender := email.NewSMTPSender(&cfg.Email, log)
	if !sender.IsConfigured() {
		log.Info("SMTP not configured, email delivery disabled")
	}

	// Initialize PDF converter
	converter := report.NewPandocConverter(&cfg.Report, log)
	if !converter.Available() {
		log.Warn("Document converter not found on PATH, PDF generation will fail",
			zap.String("binary", cfg.Report.ConverterBinary),
		)
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewVendorCacheRepository(db)

	// Fail jobs orphaned by a previous run
	if reset, err := jobRepo.ResetStuck(ctx, time.Now()); err != nil {
		log.Warn("Failed to reset stuck jobs", zap.Error(err))
	} else if reset > 0 {
		log.Info("Reset stuck jobs from previous run", zap.Int64("count", reset))
	}

	// Initialize services
	researcher := research.NewResearcher(
		coresignalClient,
		apolloClient,
		tavilyClient,
		writer,
		cacheRepo,
		cfg.Cache,
		log,
	)
	researchService := service.NewResearchService(researcher, converter, fileStorage, sender, reportRepo, log)

	// Start the background worker pool
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	workerPool := jobs.NewWorkerPool(researchService, jobRepo, cfg.Jobs, cfg.Storage.DriveBackgroundFolderID, log)
	workerPool.Start(workerCtx)

	jobService := service.NewJobService(jobRepo, workerPool, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.ApiKey, log)
	if !authMiddleware.Enabled() {
		log.Warn("API key authentication is disabled; protected routes are open")
	}
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db, handler.ComponentChecker{
		CoreSignal: coresignalClient.IsEnabled(),
		Apollo:     apolloClient.IsEnabled(),
		Tavily:     tavilyClient.IsEnabled(),
		LLM:        writer != nil && writer.IsEnabled(),
		Email:      sender.IsConfigured(),
		Storage:    fileStorage != nil,
		Converter:  converter.Available(),
	}, log)
	researchHandler := handler.NewResearchHandler(researchService, jobService, log)
	jobHandler := handler.NewJobHandler(jobService, log)
	storageHandler := handler.NewStorageHandler(researchService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		healthHandler,
		researchHandler,
		jobHandler,
		storageHandler,
	)

	// Initialize and start scheduler for the vendor cache cleanup
	var scheduler *jobs.Scheduler
	if cfg.Cache.Enabled && cfg.Cache.CleanupEnabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterCacheCleanupJob(scheduler, cacheRepo, log, cfg.Cache.CleanupCron); err != nil {
			log.Error("Failed to register cache cleanup job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with cache cleanup job",
				zap.String("cron_expr", cfg.Cache.CleanupCron),
			)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Stop accepting new jobs and let running workers drain
		stopWorkers()
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer drainCancel()
		if err := workerPool.Wait(drainCtx); err != nil {
			log.Warn("Workers did not drain before timeout", zap.Error(err))
		}

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
