package handler

import (
	"errors"
	"net/http"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobHandler exposes background job status endpoints.
type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// GetByID godoc
// @Summary Get a background job
// @Description Get the status of a background research job, including its report once completed
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.jobService.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("Failed to load job", zap.String("job_id", id.String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	respondJSON(w, http.StatusOK, job.ToDTO())
}

// List godoc
// @Summary List background jobs
// @Description Get a paginated list of background research jobs, newest first
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(pending, running, completed, failed)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JobDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.JobStatus(r.URL.Query().Get("status"))

	jobs, total, err := h.jobService.ListJobs(r.Context(), page, pageSize, status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to list jobs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	dtos := make([]domain.JobDTO, 0, len(jobs))
	for i := range jobs {
		dtos = append(dtos, jobs[i].ToDTO())
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
