package repository

import (
	"context"

	"github.com/companyintel/research-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, page, pageSize int, website string) ([]domain.Report, int64, error) {
	var reports []domain.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Report{})

	if website != "" {
		query = query.Where("website = ?", website)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&reports).Error

	return reports, total, err
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Delete removes a report row. Deleting a missing report returns
// gorm.ErrRecordNotFound so callers can map it to a 404.
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Report{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
