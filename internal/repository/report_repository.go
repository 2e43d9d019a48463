package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
)

type ReportFilter struct {
	Status     models.ReportStatus
	TargetType models.ReportType
}

type ReportRepository interface {
	BaseRepository[models.Report]
	List(ctx context.Context, f ReportFilter, page Page) ([]models.Report, int64, error)
}

type reportRepository struct {
	BaseRepository[models.Report]
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{BaseRepository: NewBaseRepository[models.Report](db, "report"), db: db}
}

func (r *reportRepository) List(ctx context.Context, f ReportFilter, page Page) ([]models.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Report{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TargetType != "" {
		q = q.Where("target_type = ?", f.TargetType)
	}
	return listPage[models.Report](q, page, "created_at DESC", "list reports")
}
