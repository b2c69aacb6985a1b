package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobQueue accepts job IDs for background execution. Enqueue returns false
// when the queue is at capacity.
type JobQueue interface {
	Enqueue(id uuid.UUID) bool
}

// JobService manages background research jobs: submission, status lookup and
// listing. The actual execution happens in the jobs worker pool.
type JobService struct {
	jobRepo *repository.JobRepository
	queue   JobQueue
	logger  *zap.Logger
}

// NewJobService creates a new JobService.
func NewJobService(jobRepo *repository.JobRepository, queue JobQueue, logger *zap.Logger) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		queue:   queue,
		logger:  logger,
	}
}

// Submit persists a pending job and hands it to the worker queue. Background
// jobs always upload their report; email delivery happens when a recipient is
// set.
func (s *JobService) Submit(ctx context.Context, kind domain.ResearchKind, req *domain.ResearchRequest) (*domain.JobAcceptedResponse, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown research kind %q", ErrInvalidInput, kind)
	}

	job := &domain.ResearchJob{
		Kind:          kind,
		Website:       req.Website,
		Status:        domain.JobStatusPending,
		Recipient:     req.Recipient,
		DriveFolderID: req.FolderID,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if !s.queue.Enqueue(job.ID) {
		if err := s.jobRepo.MarkFailed(ctx, job.ID, "job queue is full"); err != nil {
			s.logger.Error("Failed to mark overflowed job as failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		return nil, ErrQueueFull
	}

	s.logger.Info("Research job queued",
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("website", req.Website),
	)

	return &domain.JobAcceptedResponse{
		JobID:     job.ID,
		Status:    domain.JobStatusPending,
		StatusURL: fmt.Sprintf("/api/v1/jobs/%s", job.ID),
	}, nil
}

// GetJob loads a job by ID, with its report preloaded when present.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*domain.ResearchJob, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListJobs returns a page of jobs, optionally filtered by status.
func (s *JobService) ListJobs(ctx context.Context, page, pageSize int, status domain.JobStatus) ([]domain.ResearchJob, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown job status %q", ErrInvalidInput, status)
	}
	return s.jobRepo.List(ctx, page, pageSize, status)
}
