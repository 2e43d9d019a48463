package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

type PaymentFilter struct {
	TaskID     *uuid.UUID
	EmployerID *uuid.UUID
	StudentID  *uuid.UUID
	Status     models.PaymentStatus
}

type PaymentRepository interface {
	BaseRepository[models.Payment]
	List(ctx context.Context, f PaymentFilter, page Page) ([]models.Payment, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, transactionID string) error
}

type paymentRepository struct {
	BaseRepository[models.Payment]
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{BaseRepository: NewBaseRepository[models.Payment](db, "payment"), db: db}
}

func (r *paymentRepository) List(ctx context.Context, f PaymentFilter, page Page) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.EmployerID != nil {
		q = q.Where("employer_id = ?", *f.EmployerID)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return listPage[models.Payment](q, page, "created_at DESC", "list payments")
}

// UpdateStatus sets the status and, when given, the processor's transaction id.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, transactionID string) error {
	if !status.Valid() {
		return models.ErrInvalidStatus
	}
	cols := map[string]any{"status": status}
	if transactionID != "" {
		cols["transaction_id"] = transactionID
	}
	res := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).UpdateColumns(cols)
	if res.Error != nil {
		return translateError(res.Error, "update payment status")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "payment not found")
	}
	return nil
}
