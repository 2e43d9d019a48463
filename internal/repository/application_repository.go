package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

type ApplicationFilter struct {
	TaskID    *uuid.UUID
	StudentID *uuid.UUID
	Status    models.ApplicationStatus
}

type ApplicationRepository interface {
	BaseRepository[models.Application]
	List(ctx context.Context, f ApplicationFilter, page Page) ([]models.Application, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	SubmitWithApplicant(ctx context.Context, a *models.Application) error
	AcceptAndAssign(ctx context.Context, a *models.Application) (assigned bool, err error)
}

type applicationRepository struct {
	BaseRepository[models.Application]
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository[models.Application](db, "application"), db: db}
}

func (r *applicationRepository) List(ctx context.Context, f ApplicationFilter, page Page) ([]models.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Application{})
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return listPage[models.Application](q, page, "created_at DESC", "list applications")
}

// UpdateStatus writes the status column only. Reactivating an application collides with the
// active-application index and surfaces as ErrDuplicateActiveApplication.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	if !status.Valid() {
		return models.ErrInvalidStatus
	}
	res := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return translateError(res.Error, "update application status")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "application not found")
	}
	return nil
}

// SubmitWithApplicant inserts the application and records the student on the task's applicant
// set in one transaction.
func (r *applicationRepository) SubmitWithApplicant(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return appendApplicant(tx, a.TaskID, a.StudentID)
	})
	return translateError(err, "submit application")
}

// AcceptAndAssign marks the application accepted and, when the task is still open and unassigned,
// assigns it to the student and moves it to in-progress. Both writes commit together.
func (r *applicationRepository) AcceptAndAssign(ctx context.Context, a *models.Application) (bool, error) {
	var assigned bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).Where("id = ?", a.ID).
			UpdateColumn("status", models.ApplicationAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "application not found")
		}
		res = tx.Model(&models.Task{}).
			Where("id = ? AND status = ? AND assigned_to IS NULL", a.TaskID, models.TaskOpen).
			UpdateColumns(map[string]any{
				"assigned_to": a.StudentID,
				"status":      models.TaskInProgress,
				"updated_at":  gorm.Expr("NOW()"),
			})
		if res.Error != nil {
			return res.Error
		}
		assigned = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, translateError(err, "accept application")
	}
	return assigned, nil
}
