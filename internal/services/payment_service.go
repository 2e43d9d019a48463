package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type PaymentService interface {
	ListPayments(ctx context.Context, actor Actor, filter repository.PaymentFilter, page repository.Page) ([]models.Payment, int64, error)
	GetPayment(ctx context.Context, actor Actor, paymentID uuid.UUID) (*models.Payment, error)
	CreatePayment(ctx context.Context, actor Actor, input *CreatePaymentInput) (*models.Payment, error)
	UpdateStatus(ctx context.Context, actor Actor, paymentID uuid.UUID, status models.PaymentStatus, transactionID string) (*models.Payment, error)
}

type CreatePaymentInput struct {
	TaskID        uuid.UUID
	StudentID     uuid.UUID
	Amount        float64
	Currency      string
	PaymentMethod string
	TransactionID string
	Metadata      map[string]any
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	taskRepo    repository.TaskRepository
	deps        Deps
}

func NewPaymentService(paymentRepo repository.PaymentRepository, taskRepo repository.TaskRepository, deps Deps) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, taskRepo: taskRepo, deps: deps}
}

var _ PaymentService = (*paymentService)(nil)

// ListPayments restricts non-admins to payments they are a party of.
func (s *paymentService) ListPayments(ctx context.Context, actor Actor, filter repository.PaymentFilter, page repository.Page) ([]models.Payment, int64, error) {
	logger.L().Info("list payments", zap.String("user_id", actor.ID.String()))
	if !actor.IsAdmin() {
		switch {
		case filter.EmployerID != nil:
			if *filter.EmployerID != actor.ID {
				return nil, 0, ErrForbidden
			}
		case filter.StudentID != nil:
			if *filter.StudentID != actor.ID {
				return nil, 0, ErrForbidden
			}
		case actor.Role == models.RoleEmployer:
			filter.EmployerID = &actor.ID
		default:
			filter.StudentID = &actor.ID
		}
	}
	return s.paymentRepo.List(ctx, filter, page)
}

func (s *paymentService) GetPayment(ctx context.Context, actor Actor, paymentID uuid.UUID) (*models.Payment, error) {
	logger.L().Info("get payment", zap.String("payment_id", paymentID.String()), zap.String("user_id", actor.ID.String()))
	var p models.Payment
	if err := s.paymentRepo.GetByID(ctx, paymentID, &p); err != nil {
		return nil, err
	}
	if !actor.Owns(p.EmployerID) && actor.ID != p.StudentID {
		return nil, ErrForbidden
	}
	return &p, nil
}

// CreatePayment records a payment from the task owner. Admins may record it on the owner's behalf.
func (s *paymentService) CreatePayment(ctx context.Context, actor Actor, input *CreatePaymentInput) (*models.Payment, error) {
	logger.L().Info("create payment called", zap.String("task_id", input.TaskID.String()), zap.String("user_id", actor.ID.String()))

	var t models.Task
	if err := s.taskRepo.GetByID(ctx, input.TaskID, &t); err != nil {
		return nil, observe(asTaskLookup(err))
	}
	if !actor.Owns(t.EmployerID) {
		return nil, ErrForbidden
	}

	var meta datatypes.JSON
	if input.Metadata != nil {
		b, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid metadata json")
		}
		meta = datatypes.JSON(b)
	}

	p := &models.Payment{
		TaskID:        input.TaskID,
		EmployerID:    t.EmployerID,
		StudentID:     input.StudentID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        models.PaymentPending,
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		Metadata:      meta,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventPaymentCreated)
	logger.L().Info("payment created", zap.String("payment_id", p.ID.String()), zap.String("task_id", input.TaskID.String()))
	return p, nil
}

// UpdateStatus is open to the paying employer and admins. Completing a payment schedules badge
// evaluation for the student.
func (s *paymentService) UpdateStatus(ctx context.Context, actor Actor, paymentID uuid.UUID, status models.PaymentStatus, transactionID string) (*models.Payment, error) {
	logger.L().Info("update payment status", zap.String("payment_id", paymentID.String()), zap.String("status", string(status)))
	if !status.Valid() {
		return nil, observe(models.ErrInvalidStatus)
	}

	var p models.Payment
	if err := s.paymentRepo.GetByID(ctx, paymentID, &p); err != nil {
		return nil, err
	}
	if !actor.Owns(p.EmployerID) {
		return nil, ErrForbidden
	}
	if p.Status == status && transactionID == "" {
		return &p, nil
	}

	if err := s.paymentRepo.UpdateStatus(ctx, p.ID, status, transactionID); err != nil {
		return nil, err
	}
	completing := status == models.PaymentCompleted && p.Status != models.PaymentCompleted
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}

	if completing {
		s.deps.enqueueBadgeEvaluation(ctx, p.StudentID)
	}
	logger.L().Info("payment status updated", zap.String("payment_id", p.ID.String()), zap.String("status", string(status)))
	return &p, nil
}
