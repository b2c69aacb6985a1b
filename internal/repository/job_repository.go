package repository

import (
	"context"
	"time"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.ResearchJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResearchJob, error) {
	var job domain.ResearchJob
	err := r.db.WithContext(ctx).Preload("Report").First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, page, pageSize int, status domain.JobStatus) ([]domain.ResearchJob, int64, error) {
	var jobs []domain.ResearchJob
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ResearchJob{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.ResearchJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusRunning,
			"started_at": now,
		}).Error
}

func (r *JobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, companyName string, reportID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.ResearchJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       domain.JobStatusCompleted,
			"company_name": companyName,
			"report_id":    reportID,
			"finished_at":  now,
		}).Error
}

func (r *JobRepository) MarkFailed(ctx context.Context, id uuid.UUID, jobErr string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.ResearchJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.JobStatusFailed,
			"error":       jobErr,
			"finished_at": now,
		}).Error
}

// ResetStuck marks jobs orphaned by a crash as failed: running jobs started
// before the cutoff, and pending jobs created before the cutoff (the queue is
// in-memory, so a pending job from a previous process will never be picked
// up). Called at startup.
func (r *JobRepository) ResetStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ResearchJob{}).
		Where("(status = ? AND started_at < ?) OR (status = ? AND created_at < ?)",
			domain.JobStatusRunning, cutoff, domain.JobStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status": domain.JobStatusFailed,
			"error":  "job interrupted by service restart",
		})
	return res.RowsAffected, res.Error
}
