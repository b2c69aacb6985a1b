package router

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/companyintel/research-api/internal/auth"
	"github.com/companyintel/research-api/internal/config"
	"github.com/companyintel/research-api/internal/database"
	"github.com/companyintel/research-api/internal/http/handler"
	"github.com/companyintel/research-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/companyintel/research-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	healthHandler   *handler.HealthHandler
	researchHandler *handler.ResearchHandler
	jobHandler      *handler.JobHandler
	storageHandler  *handler.StorageHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	researchHandler *handler.ResearchHandler,
	jobHandler *handler.JobHandler,
	storageHandler *handler.StorageHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		healthHandler:   healthHandler,
		researchHandler: researchHandler,
		jobHandler:      jobHandler,
		storageHandler:  storageHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if stats, err := database.HealthCheckWithStats(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status":          "healthy",
				"openConnections": stats.OpenConnections,
				"inUse":           stats.InUse,
				"idle":            stats.Idle,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Root serves the research interface when a static page is present,
	// falling back to a JSON API index otherwise.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if rt.cfg.Server.StaticDir != "" {
			index := filepath.Join(rt.cfg.Server.StaticDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, req, index)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Company Research Multi-Source API with CoreSignal, Apollo & Tavily",
			"endpoints": map[string]string{
				"multi_source_research": "/api/v1/research/multi-source",
				"coresignal_research":   "/api/v1/research/coresignal",
				"background_jobs":       "/api/v1/jobs",
				"reports":               "/api/v1/reports",
				"storage_files":         "/api/v1/storage/files",
				"health":                "/api/v1/health",
				"docs":                  "/swagger/index.html",
			},
		})
	})

	// Static research interface assets
	if rt.cfg.Server.StaticDir != "" {
		fs := http.FileServer(http.Dir(rt.cfg.Server.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static", fs))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Detailed health is public
		r.Get("/health", rt.healthHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Route("/research", func(r chi.Router) {
				r.Post("/multi-source", rt.researchHandler.MultiSource)
				r.Post("/multi-source/background", rt.researchHandler.MultiSourceBackground)
				r.Post("/coresignal", rt.researchHandler.CoreSignal)
				r.Post("/coresignal/background", rt.researchHandler.CoreSignalBackground)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Get("/{id}", rt.jobHandler.GetByID)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", rt.storageHandler.ListReports)
				r.Get("/{id}/download", rt.storageHandler.Download)
				r.Delete("/{id}", rt.storageHandler.DeleteReport)
			})

			r.Get("/storage/files", rt.storageHandler.ListFiles)
		})
	})

	return r
}
