package jobs

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/companyintel/research-api/internal/config"
	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/logger"
	"github.com/companyintel/research-api/internal/repository"
	"github.com/companyintel/research-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkerPool executes queued research jobs. The in-memory queue carries only
// job IDs; workers load the job row when they pick it up. The queue does not
// survive a restart: orphaned running and stale pending jobs are failed at
// startup and clients resubmit.
type WorkerPool struct {
	queue              chan uuid.UUID
	jobRepo            *repository.JobRepository
	research           *service.ResearchService
	cfg                config.JobsConfig
	backgroundFolderID string
	logger             *zap.Logger
	wg                 sync.WaitGroup
}

// NewWorkerPool creates a worker pool. backgroundFolderID is the storage
// folder background reports land in when the job carries no folder override.
func NewWorkerPool(
	research *service.ResearchService,
	jobRepo *repository.JobRepository,
	cfg config.JobsConfig,
	backgroundFolderID string,
	log *zap.Logger,
) *WorkerPool {
	return &WorkerPool{
		queue:              make(chan uuid.UUID, cfg.QueueSize),
		jobRepo:            jobRepo,
		research:           research,
		cfg:                cfg,
		backgroundFolderID: backgroundFolderID,
		logger:             log,
	}
}

// Enqueue hands a job ID to the pool. Returns false when the queue is full.
func (w *WorkerPool) Enqueue(id uuid.UUID) bool {
	select {
	case w.queue <- id:
		return true
	default:
		return false
	}
}

// Start launches the worker goroutines. They run until ctx is cancelled.
func (w *WorkerPool) Start(ctx context.Context) {
	workers := w.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	w.logger.Info("starting research workers", zap.Int("workers", workers))

	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go func(worker int) {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-w.queue:
					w.run(jobID)
				}
			}
		}(i)
	}
}

// Wait blocks until all workers have exited or ctx expires.
func (w *WorkerPool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes a single job end to end. Background jobs always upload their
// report; email delivery happens when the job carries a recipient.
func (w *WorkerPool) run(jobID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.ResearchTimeoutDuration())
	defer cancel()

	job, err := w.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		w.logger.Error("failed to load queued job",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
		return
	}

	log := logger.WithJob(w.logger, job.ID.String(), string(job.Kind))

	// A job can reach the queue twice (resubmission races); never rerun one
	// that already finished.
	if job.Status.IsTerminal() {
		log.Warn("skipping job already in a terminal state", zap.String("status", string(job.Status)))
		return
	}

	if err := w.jobRepo.MarkRunning(ctx, job.ID); err != nil {
		log.Error("failed to mark job running", zap.Error(err))
		return
	}
	log.Info("research job started", zap.String("website", job.Website))

	folderID := job.DriveFolderID
	if folderID == "" {
		folderID = w.backgroundFolderID
	}

	req := &domain.ResearchRequest{
		Website:         job.Website,
		Recipient:       job.Recipient,
		SendEmail:       job.Recipient != "",
		UploadToStorage: true,
		FolderID:        folderID,
	}

	start := time.Now()
	resp, pdfPath, err := w.research.Run(ctx, job.Kind, req)
	if pdfPath != "" {
		// No caller can stream a background report; drop the temp file that
		// survives a failed upload.
		os.Remove(pdfPath)
	}
	if err != nil {
		log.Error("research job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		// Use a fresh context; the job context may already be expired
		markCtx, markCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer markCancel()
		if markErr := w.jobRepo.MarkFailed(markCtx, job.ID, err.Error()); markErr != nil {
			log.Error("failed to mark job failed", zap.Error(markErr))
		}
		return
	}

	if err := w.jobRepo.MarkCompleted(ctx, job.ID, resp.CompanyName, resp.ReportID); err != nil {
		log.Error("failed to mark job completed", zap.Error(err))
		return
	}

	log.Info("research job completed",
		zap.String("company", resp.CompanyName),
		zap.String("report_id", resp.ReportID.String()),
		zap.Duration("duration", time.Since(start)),
	)
}
