package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type ApplicationService interface {
	ListApplications(ctx context.Context, actor Actor, filter repository.ApplicationFilter, page repository.Page) ([]models.Application, int64, error)
	ListForTask(ctx context.Context, actor Actor, taskID uuid.UUID, page repository.Page) ([]models.Application, int64, error)
	GetApplication(ctx context.Context, actor Actor, applicationID uuid.UUID) (*models.Application, error)
	SubmitApplication(ctx context.Context, actor Actor, input *SubmitApplicationInput) (*models.Application, error)
	UpdateStatus(ctx context.Context, actor Actor, applicationID uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
}

type SubmitApplicationInput struct {
	TaskID      uuid.UUID
	Proposal    string
	Attachments []string
}

type applicationService struct {
	appRepo  repository.ApplicationRepository
	taskRepo repository.TaskRepository
}

func NewApplicationService(appRepo repository.ApplicationRepository, taskRepo repository.TaskRepository) ApplicationService {
	return &applicationService{appRepo: appRepo, taskRepo: taskRepo}
}

var _ ApplicationService = (*applicationService)(nil)

// ListApplications lets admins filter freely; everyone else only sees their own applications.
func (s *applicationService) ListApplications(ctx context.Context, actor Actor, filter repository.ApplicationFilter, page repository.Page) ([]models.Application, int64, error) {
	logger.L().Info("list applications", zap.String("user_id", actor.ID.String()))
	if !actor.IsAdmin() {
		if filter.StudentID != nil && *filter.StudentID != actor.ID {
			return nil, 0, ErrForbidden
		}
		filter.StudentID = &actor.ID
	}
	return s.appRepo.List(ctx, filter, page)
}

// ListForTask is open to the task owner and admins.
func (s *applicationService) ListForTask(ctx context.Context, actor Actor, taskID uuid.UUID, page repository.Page) ([]models.Application, int64, error) {
	logger.L().Info("list task applications", zap.String("task_id", taskID.String()), zap.String("user_id", actor.ID.String()))
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, taskID, &t); err != nil {
		return nil, 0, asTaskLookup(err)
	}
	if !actor.Owns(t.EmployerID) {
		return nil, 0, ErrForbidden
	}
	return s.appRepo.List(ctx, repository.ApplicationFilter{TaskID: &taskID}, page)
}

func (s *applicationService) GetApplication(ctx context.Context, actor Actor, applicationID uuid.UUID) (*models.Application, error) {
	logger.L().Info("get application", zap.String("application_id", applicationID.String()), zap.String("user_id", actor.ID.String()))
	var a models.Application
	if err := s.appRepo.GetByID(ctx, applicationID, &a); err != nil {
		return nil, err
	}
	if actor.Owns(a.StudentID) {
		return &a, nil
	}
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, a.TaskID, &t); err != nil {
		return nil, asTaskLookup(err)
	}
	if !t.IsOwnedBy(actor.ID) {
		return nil, ErrForbidden
	}
	return &a, nil
}

// SubmitApplication records the caller's proposal and adds them to the task's applicants.
func (s *applicationService) SubmitApplication(ctx context.Context, actor Actor, input *SubmitApplicationInput) (*models.Application, error) {
	logger.L().Info("submit application called", zap.String("task_id", input.TaskID.String()), zap.String("student_id", actor.ID.String()))
	if actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}

	var t models.Task
	if err := s.taskRepo.GetByID(ctx, input.TaskID, &t); err != nil {
		return nil, asTaskLookup(err)
	}
	if t.Status != models.TaskOpen {
		return nil, observe(ErrTaskNotOpen)
	}

	a := &models.Application{
		TaskID:      input.TaskID,
		StudentID:   actor.ID,
		Proposal:    input.Proposal,
		Status:      models.ApplicationPending,
		Attachments: pq.StringArray(input.Attachments),
	}
	if err := s.appRepo.SubmitWithApplicant(ctx, a); err != nil {
		logger.L().Error("submit application failed", zap.Error(err), zap.String("task_id", input.TaskID.String()))
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventApplicationSubmitted)
	logger.L().Info("application submitted", zap.String("application_id", a.ID.String()), zap.String("task_id", input.TaskID.String()))
	return a, nil
}

// applicationMoves lists who may move an application from one status to another.
var applicationMoves = map[models.ApplicationStatus]map[models.ApplicationStatus]string{
	models.ApplicationPending: {
		models.ApplicationAccepted:  "owner",
		models.ApplicationRejected:  "owner",
		models.ApplicationWithdrawn: "student",
	},
	models.ApplicationAccepted: {
		models.ApplicationWithdrawn: "student",
		models.ApplicationRejected:  "owner",
	},
}

// UpdateStatus applies a workflow move. Accepting assigns an open, unassigned task to the student
// in the same transaction.
func (s *applicationService) UpdateStatus(ctx context.Context, actor Actor, applicationID uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	logger.L().Info("update application status", zap.String("application_id", applicationID.String()), zap.String("status", string(status)))
	if !status.Valid() {
		return nil, observe(models.ErrInvalidStatus)
	}

	var a models.Application
	if err := s.appRepo.GetByID(ctx, applicationID, &a); err != nil {
		return nil, err
	}
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, a.TaskID, &t); err != nil {
		return nil, asTaskLookup(err)
	}

	if a.Status == status {
		return &a, nil
	}
	who, ok := applicationMoves[a.Status][status]
	if !ok {
		return nil, observe(models.ErrInvalidStatusTransition)
	}
	switch who {
	case "student":
		if actor.ID != a.StudentID {
			return nil, ErrForbidden
		}
	case "owner":
		if !actor.Owns(t.EmployerID) {
			return nil, ErrForbidden
		}
	}

	if status == models.ApplicationAccepted {
		assigned, err := s.appRepo.AcceptAndAssign(ctx, &a)
		if err != nil {
			return nil, observe(err)
		}
		if assigned {
			logger.L().Info("task assigned", zap.String("task_id", t.ID.String()), zap.String("student_id", a.StudentID.String()))
		}
	} else if err := s.appRepo.UpdateStatus(ctx, a.ID, status); err != nil {
		return nil, observe(err)
	}
	a.Status = status

	logger.L().Info("application status updated", zap.String("application_id", a.ID.String()), zap.String("status", string(status)))
	return &a, nil
}
