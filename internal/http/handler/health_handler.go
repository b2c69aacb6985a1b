package handler

import (
	"net/http"
	"time"

	"github.com/companyintel/research-api/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthStatus describes the availability of each subsystem.
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// ComponentChecker reports per-subsystem availability for the detailed
// health endpoint.
type ComponentChecker struct {
	CoreSignal bool
	Apollo     bool
	Tavily     bool
	LLM        bool
	Email      bool
	Storage    bool
	Converter  bool
}

// HealthHandler serves the detailed API health endpoint.
type HealthHandler struct {
	db      *gorm.DB
	checker ComponentChecker
	logger  *zap.Logger
}

func NewHealthHandler(db *gorm.DB, checker ComponentChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		checker: checker,
		logger:  logger,
	}
}

// Get godoc
// @Summary API health
// @Description Reports the availability of every subsystem the research pipeline depends on
// @Tags Health
// @Produce json
// @Success 200 {object} handler.HealthStatus
// @Success 503 {object} handler.HealthStatus
// @Router /health [get]
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"coresignal": availability(h.checker.CoreSignal),
		"apollo":     availability(h.checker.Apollo),
		"tavily":     availability(h.checker.Tavily),
		"llm":        availability(h.checker.LLM),
		"email":      availability(h.checker.Email),
		"storage":    availability(h.checker.Storage),
		"converter":  availability(h.checker.Converter),
	}

	status := http.StatusOK
	overall := "healthy"
	if err := database.HealthCheck(h.db); err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		components["database"] = "unavailable"
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	} else {
		components["database"] = "available"
	}

	respondJSON(w, status, HealthStatus{
		Status:     overall,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not configured"
}
