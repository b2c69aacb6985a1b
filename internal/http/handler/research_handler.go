package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/service"
	"go.uber.org/zap"
)

// ResearchHandler exposes the synchronous and background research endpoints.
type ResearchHandler struct {
	researchService *service.ResearchService
	jobService      *service.JobService
	logger          *zap.Logger
}

func NewResearchHandler(researchService *service.ResearchService, jobService *service.JobService, logger *zap.Logger) *ResearchHandler {
	return &ResearchHandler{
		researchService: researchService,
		jobService:      jobService,
		logger:          logger,
	}
}

// MultiSource godoc
// @Summary Run multi-source company research
// @Description Researches a company website with CoreSignal, Apollo and Tavily and returns the generated PDF report, or a JSON summary when delivery options are set
// @Tags Research
// @Accept json
// @Produce json
// @Produce application/pdf
// @Param request body domain.ResearchRequest true "Research request"
// @Success 200 {object} domain.ResearchResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 502 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /research/multi-source [post]
func (h *ResearchHandler) MultiSource(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, domain.ResearchKindMultiSource)
}

// CoreSignal godoc
// @Summary Run CoreSignal company research
// @Description Researches a company website using CoreSignal data only and returns the generated PDF report, or a JSON summary when delivery options are set
// @Tags Research
// @Accept json
// @Produce json
// @Produce application/pdf
// @Param request body domain.ResearchRequest true "Research request"
// @Success 200 {object} domain.ResearchResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 502 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /research/coresignal [post]
func (h *ResearchHandler) CoreSignal(w http.ResponseWriter, r *http.Request) {
	h.runSync(w, r, domain.ResearchKindCoreSignal)
}

// MultiSourceBackground godoc
// @Summary Queue multi-source research as a background job
// @Description Queues the research and returns immediately with a job ID to poll
// @Tags Research
// @Accept json
// @Produce json
// @Param request body domain.ResearchRequest true "Research request"
// @Success 202 {object} domain.JobAcceptedResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 503 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /research/multi-source/background [post]
func (h *ResearchHandler) MultiSourceBackground(w http.ResponseWriter, r *http.Request) {
	h.submitJob(w, r, domain.ResearchKindMultiSource)
}

// CoreSignalBackground godoc
// @Summary Queue CoreSignal research as a background job
// @Description Queues the research and returns immediately with a job ID to poll
// @Tags Research
// @Accept json
// @Produce json
// @Param request body domain.ResearchRequest true "Research request"
// @Success 202 {object} domain.JobAcceptedResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 503 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /research/coresignal/background [post]
func (h *ResearchHandler) CoreSignalBackground(w http.ResponseWriter, r *http.Request) {
	h.submitJob(w, r, domain.ResearchKindCoreSignal)
}

// runSync executes the research inline. Without delivery options the PDF is
// streamed back; an upload failure on the streamed path is surfaced in the
// X-Storage-Upload-Error header so the client still gets the report.
func (h *ResearchHandler) runSync(w http.ResponseWriter, r *http.Request, kind domain.ResearchKind) {
	var req domain.ResearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.SendEmail && req.Recipient == "" {
		respondWithError(w, http.StatusBadRequest, "recipient is required when sendEmail is set")
		return
	}

	resp, pdfPath, err := h.researchService.Run(r.Context(), kind, &req)
	if err != nil {
		h.logger.Error("Research request failed",
			zap.String("kind", string(kind)),
			zap.String("website", req.Website),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConversionFailed):
			respondWithError(w, http.StatusInternalServerError, "Failed to render the PDF report")
		case errors.Is(err, service.ErrResearchUnavailable):
			respondWithError(w, http.StatusBadGateway, "Company research failed: "+err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Company research failed")
		}
		return
	}

	if pdfPath == "" {
		respondJSON(w, http.StatusOK, resp)
		return
	}
	defer os.Remove(pdfPath)

	if resp.Storage != nil && resp.Storage.Error != "" {
		w.Header().Set("X-Storage-Upload-Error", resp.Storage.Error)
	}
	h.streamPDF(w, r, pdfPath, resp.Filename)
}

func (h *ResearchHandler) submitJob(w http.ResponseWriter, r *http.Request, kind domain.ResearchKind) {
	var req domain.ResearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	accepted, err := h.jobService.Submit(r.Context(), kind, &req)
	if err != nil {
		if errors.Is(err, service.ErrQueueFull) {
			w.Header().Set("Retry-After", "30")
			respondWithError(w, http.StatusServiceUnavailable, "Job queue is full, try again later")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to queue research job",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to queue research job")
		return
	}

	respondJSON(w, http.StatusAccepted, accepted)
}

func (h *ResearchHandler) streamPDF(w http.ResponseWriter, r *http.Request, pdfPath, filename string) {
	f, err := os.Open(pdfPath)
	if err != nil {
		h.logger.Error("Failed to open generated PDF", zap.String("path", pdfPath), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read the generated report")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to read the generated report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, filename, info.ModTime(), f)
}
