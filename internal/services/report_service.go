package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type ReportService interface {
	FileReport(ctx context.Context, actor Actor, input *FileReportInput) (*models.Report, error)
	ListReports(ctx context.Context, actor Actor, filter repository.ReportFilter, page repository.Page) ([]models.Report, int64, error)
	GetReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*models.Report, error)
	UpdateReport(ctx context.Context, actor Actor, reportID uuid.UUID, input *UpdateReportInput) (*models.Report, error)
}

// FileReportInput carries the optional references a client sends; exactly one must be set.
type FileReportInput struct {
	ReportedUser    *uuid.UUID
	ReportedTask    *uuid.UUID
	ReportedMessage *uuid.UUID
	Reason          string
	Description     string
}

type UpdateReportInput struct {
	Status     *models.ReportStatus
	AdminNotes *string
}

type reportService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo, now: time.Now}
}

var _ ReportService = (*reportService)(nil)

func (s *reportService) FileReport(ctx context.Context, actor Actor, input *FileReportInput) (*models.Report, error) {
	logger.L().Info("file report called", zap.String("reporter_id", actor.ID.String()), zap.String("reason", input.Reason))
	target, err := models.NewReportTarget(input.ReportedUser, input.ReportedTask, input.ReportedMessage)
	if err != nil {
		return nil, observe(err)
	}

	r := &models.Report{
		ReporterID:  actor.ID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      models.ReportPending,
	}
	r.SetTarget(target)
	if err := s.reportRepo.Create(ctx, r); err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventReportFiled)
	logger.L().Info("report filed", zap.String("report_id", r.ID.String()), zap.String("target_type", string(r.TargetType)))
	return r, nil
}

func (s *reportService) ListReports(ctx context.Context, actor Actor, filter repository.ReportFilter, page repository.Page) ([]models.Report, int64, error) {
	logger.L().Info("list reports", zap.String("actor_id", actor.ID.String()))
	if !actor.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	return s.reportRepo.List(ctx, filter, page)
}

func (s *reportService) GetReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*models.Report, error) {
	logger.L().Info("get report", zap.String("report_id", reportID.String()))
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	var r models.Report
	if err := s.reportRepo.GetByID(ctx, reportID, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateReport moves a report through moderation. Closing it records who closed it and when.
func (s *reportService) UpdateReport(ctx context.Context, actor Actor, reportID uuid.UUID, input *UpdateReportInput) (*models.Report, error) {
	logger.L().Info("update report", zap.String("report_id", reportID.String()), zap.String("actor_id", actor.ID.String()))
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	var r models.Report
	if err := s.reportRepo.GetByID(ctx, reportID, &r); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, observe(models.ErrInvalidStatus)
		}
		if input.Status.Closed() && !r.Status.Closed() {
			at := s.now()
			r.ResolvedAt = &at
			r.ResolvedBy = &actor.ID
		}
		if !input.Status.Closed() {
			r.ResolvedAt = nil
			r.ResolvedBy = nil
		}
		r.Status = *input.Status
	}
	if input.AdminNotes != nil {
		r.AdminNotes = *input.AdminNotes
	}

	if err := s.reportRepo.Update(ctx, &r); err != nil {
		return nil, observe(err)
	}
	logger.L().Info("report updated", zap.String("report_id", reportID.String()), zap.String("status", string(r.Status)))
	return &r, nil
}
