package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageHandler exposes the storage listing and report download endpoints.
type StorageHandler struct {
	researchService *service.ResearchService
	logger          *zap.Logger
}

func NewStorageHandler(researchService *service.ResearchService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{
		researchService: researchService,
		logger:          logger,
	}
}

// ListFiles godoc
// @Summary List stored report files
// @Description Lists files in the storage backend. folderId narrows the listing when the backend supports folders
// @Tags Storage
// @Produce json
// @Param folderId query string false "Storage folder ID"
// @Success 200 {array} domain.StorageFileDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /storage/files [get]
func (h *StorageHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")

	files, err := h.researchService.ListStorageFiles(r.Context(), folderID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Storage backend is not configured")
			return
		}
		h.logger.Error("Failed to list storage files",
			zap.String("folder_id", folderID),
			zap.Error(err),
		)
		respondWithError(w, http.StatusBadGateway, "Failed to list storage files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// ListReports godoc
// @Summary List generated reports
// @Description Get a paginated list of generated reports, newest first
// @Tags Reports
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param website query string false "Filter by researched website"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ReportDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /reports [get]
func (h *StorageHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	website := r.URL.Query().Get("website")

	reports, total, err := h.researchService.ListReports(r.Context(), page, pageSize, website)
	if err != nil {
		h.logger.Error("Failed to list reports", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	dtos := make([]domain.ReportDTO, 0, len(reports))
	for i := range reports {
		dtos = append(dtos, reports[i].ToDTO())
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

// Download godoc
// @Summary Download a report PDF
// @Description Streams the stored report PDF, fetching the uploaded copy when available and re-rendering the markdown otherwise
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Report ID"
// @Success 200 {file} file
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /reports/{id}/download [get]
func (h *StorageHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	rec, pdfPath, err := h.researchService.ReportPDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error("Failed to render report PDF",
			zap.String("report_id", id.String()),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to render the report PDF")
		return
	}
	defer os.Remove(pdfPath)

	f, err := os.Open(pdfPath)
	if err != nil {
		h.logger.Error("Failed to open rendered PDF", zap.String("path", pdfPath), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read the rendered report")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to read the rendered report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Filename))
	http.ServeContent(w, r, rec.Filename, info.ModTime(), f)
}

// DeleteReport godoc
// @Summary Delete a report
// @Description Deletes a stored report and, when it was uploaded, its copy in the storage backend
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /reports/{id} [delete]
func (h *StorageHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	if err := h.researchService.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error("Failed to delete report",
			zap.String("report_id", id.String()),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete the report")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Report deleted"})
}
