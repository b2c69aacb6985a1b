package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/email"
	"github.com/companyintel/research-api/internal/report"
	"github.com/companyintel/research-api/internal/repository"
	"github.com/companyintel/research-api/internal/research"
	"github.com/companyintel/research-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResearchService runs the full research pipeline: gather vendor data, write
// the report, render the PDF, persist it and deliver it through the
// requested channels.
type ResearchService struct {
	researcher *research.Researcher
	converter  report.Converter
	storage    storage.Storage
	email      email.Sender
	reportRepo *repository.ReportRepository
	logger     *zap.Logger
}

// NewResearchService creates a new ResearchService. storage and email may be
// nil when the corresponding backends are not configured; requests asking for
// those deliveries get the failure surfaced in the response instead of an error.
func NewResearchService(
	researcher *research.Researcher,
	converter report.Converter,
	store storage.Storage,
	sender email.Sender,
	reportRepo *repository.ReportRepository,
	logger *zap.Logger,
) *ResearchService {
	return &ResearchService{
		researcher: researcher,
		converter:  converter,
		storage:    store,
		email:      sender,
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Run executes a research request end to end. When the report actually left
// through a delivery channel (the upload succeeded or the email was sent) the
// temp PDF is removed and the returned path is empty. Otherwise the file is
// kept on disk and its path returned so the caller can stream it; the caller
// owns removing it. That covers both the no-delivery case and the case where
// every requested delivery failed.
func (s *ResearchService) Run(ctx context.Context, kind domain.ResearchKind, req *domain.ResearchRequest) (*domain.ResearchResponse, string, error) {
	start := time.Now()

	result, err := s.research(ctx, kind, req.Website)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", ErrResearchUnavailable, err)
	}

	filename := report.Filename(result.CompanyName, kind, start)
	pdfPath := s.converter.TempPDFPath(fmt.Sprintf("%s_%s", uuid.NewString()[:8], filename))

	if err := s.converter.Convert(ctx, result.Markdown, pdfPath); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat generated pdf: %w", err)
	}

	rec := &domain.Report{
		Kind:        kind,
		Website:     req.Website,
		CompanyName: result.CompanyName,
		Filename:    filename,
		Markdown:    result.Markdown,
		SizeBytes:   info.Size(),
		GeneratedBy: result.GeneratedBy,
	}

	resp := &domain.ResearchResponse{
		Status:      "success",
		Kind:        kind,
		Website:     req.Website,
		CompanyName: result.CompanyName,
		Filename:    filename,
		GeneratedBy: result.GeneratedBy,
		SizeBytes:   info.Size(),
	}
	if req.ReturnData {
		resp.RawData = result.Raw
	}

	var storageLink string
	if req.UploadToStorage {
		resp.Storage = s.upload(ctx, rec, pdfPath, req.FolderID)
		storageLink = resp.Storage.ViewLink
	}

	if req.SendEmail {
		resp.Email = s.send(ctx, rec, pdfPath, req.Recipient, storageLink)
	}

	if err := s.reportRepo.Create(ctx, rec); err != nil {
		os.Remove(pdfPath)
		return nil, "", fmt.Errorf("failed to persist report: %w", err)
	}
	resp.ReportID = rec.ID
	resp.ElapsedMs = time.Since(start).Milliseconds()

	s.logger.Info("Research completed",
		zap.String("kind", string(kind)),
		zap.String("website", req.Website),
		zap.String("company", result.CompanyName),
		zap.String("generated_by", result.GeneratedBy),
		zap.Int64("size_bytes", info.Size()),
		zap.Int64("elapsed_ms", resp.ElapsedMs),
	)

	delivered := (resp.Storage != nil && resp.Storage.Uploaded) ||
		(resp.Email != nil && resp.Email.Sent)
	if delivered {
		os.Remove(pdfPath)
		return resp, "", nil
	}
	return resp, pdfPath, nil
}

func (s *ResearchService) research(ctx context.Context, kind domain.ResearchKind, website string) (*research.Result, error) {
	switch kind {
	case domain.ResearchKindMultiSource:
		return s.researcher.MultiSource(ctx, website)
	case domain.ResearchKindCoreSignal:
		return s.researcher.CoreSignal(ctx, website)
	default:
		return nil, fmt.Errorf("%w: unknown research kind %q", ErrInvalidInput, kind)
	}
}

// upload pushes the PDF to the storage backend. Upload failure is recorded on
// the result, never returned: a finished report should reach the caller even
// when storage is down.
func (s *ResearchService) upload(ctx context.Context, rec *domain.Report, pdfPath, folderID string) *domain.StorageResultDTO {
	if s.storage == nil {
		return &domain.StorageResultDTO{Error: "storage backend is not configured"}
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return &domain.StorageResultDTO{Error: fmt.Sprintf("failed to open pdf: %v", err)}
	}
	defer f.Close()

	result, err := s.storage.Upload(ctx, rec.Filename, "application/pdf", uploadDescription(rec), f, folderID)
	if err != nil {
		s.logger.Warn("Storage upload failed",
			zap.String("filename", rec.Filename),
			zap.Error(err),
		)
		return &domain.StorageResultDTO{Error: err.Error()}
	}

	rec.StoragePath = result.Path
	rec.StorageLink = result.ViewLink
	return &domain.StorageResultDTO{
		Uploaded: true,
		Path:     result.Path,
		ViewLink: result.ViewLink,
	}
}

// uploadDescription builds the file description attached to the uploaded PDF
// so the report is identifiable when browsing the storage backend directly.
func uploadDescription(rec *domain.Report) string {
	label := "Multi-source"
	if rec.Kind == domain.ResearchKindCoreSignal {
		label = "CoreSignal"
	}
	return fmt.Sprintf("%s company research report for %s generated on %s",
		label, rec.CompanyName, time.Now().Format("2006-01-02 15:04:05"))
}

// send emails the PDF. Like upload, failure is surfaced in the result.
func (s *ResearchService) send(ctx context.Context, rec *domain.Report, pdfPath, recipient, storageLink string) *domain.EmailResultDTO {
	if recipient == "" {
		return &domain.EmailResultDTO{Error: "no recipient provided"}
	}
	if s.email == nil || !s.email.IsConfigured() {
		return &domain.EmailResultDTO{Recipient: recipient, Error: "email delivery is not configured"}
	}

	if err := s.email.SendReport(ctx, recipient, rec.CompanyName, pdfPath, rec.Filename, storageLink); err != nil {
		s.logger.Warn("Email delivery failed",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return &domain.EmailResultDTO{Recipient: recipient, Error: err.Error()}
	}

	rec.EmailedTo = recipient
	return &domain.EmailResultDTO{Sent: true, Recipient: recipient}
}

// GetReport loads a stored report by ID.
func (s *ResearchService) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	rec, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListReports returns a page of stored reports, optionally filtered by website.
func (s *ResearchService) ListReports(ctx context.Context, page, pageSize int, website string) ([]domain.Report, int64, error) {
	return s.reportRepo.List(ctx, page, pageSize, website)
}

// ReportPDF materializes a stored report as a temp PDF and returns its path;
// the caller owns removing the file. When the report was uploaded, the stored
// copy is fetched from the storage backend first; otherwise, or when the
// fetch fails, the stored markdown is re-rendered.
func (s *ResearchService) ReportPDF(ctx context.Context, id uuid.UUID) (*domain.Report, string, error) {
	rec, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, "", err
	}

	pdfPath := s.converter.TempPDFPath(fmt.Sprintf("%s_%s", uuid.NewString()[:8], rec.Filename))

	if rec.StoragePath != "" && s.storage != nil {
		if err := s.fetchStored(ctx, rec.StoragePath, pdfPath); err == nil {
			return rec, pdfPath, nil
		} else {
			s.logger.Warn("Failed to fetch stored report, re-rendering",
				zap.String("storage_path", rec.StoragePath),
				zap.Error(err),
			)
		}
	}

	if rec.Markdown == "" {
		return nil, "", fmt.Errorf("%w: report has no stored markdown", ErrNotFound)
	}
	if err := s.converter.Convert(ctx, rec.Markdown, pdfPath); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	return rec, pdfPath, nil
}

func (s *ResearchService) fetchStored(ctx context.Context, storagePath, destPath string) error {
	rc, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}

// DeleteReport removes a stored report and, when the report was uploaded, its
// copy in the storage backend. Storage deletion failure is logged, never
// fatal: the database row is the source of truth.
func (s *ResearchService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	rec, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	if rec.StoragePath != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, rec.StoragePath); err != nil {
			s.logger.Warn("Failed to delete stored report file",
				zap.String("storage_path", rec.StoragePath),
				zap.Error(err),
			)
		}
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListStorageFiles lists files in the storage backend, folderID narrowing the
// listing when the backend supports folders.
func (s *ResearchService) ListStorageFiles(ctx context.Context, folderID string) ([]domain.StorageFileDTO, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: storage backend is not configured", ErrNotFound)
	}
	files, err := s.storage.List(ctx, folderID)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.StorageFileDTO, 0, len(files))
	for _, f := range files {
		dtos = append(dtos, domain.StorageFileDTO{
			ID:           f.ID,
			Name:         f.Name,
			MimeType:     f.MimeType,
			SizeBytes:    f.Size,
			ModifiedTime: f.ModifiedTime,
			ViewLink:     f.ViewLink,
		})
	}
	return dtos, nil
}
