package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type TaskService interface {
	ListTasks(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]models.Task, int64, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, actor Actor, input *CreateTaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, actor Actor, taskID uuid.UUID, input *UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, actor Actor, taskID uuid.UUID) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	Budget      models.Budget
	Deadline    time.Time
	Skills      []string
	Category    string
	Location    *models.GeoPoint
	IsRemote    bool
}

// UpdateTaskInput holds optional changes; nil fields are left as they are.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Budget      *models.Budget
	Deadline    *time.Time
	Status      *models.TaskStatus
	Skills      []string
	Category    *string
	Location    *models.GeoPoint
	IsRemote    *bool
	AssignedTo  *uuid.UUID
}

type taskService struct {
	taskRepo repository.TaskRepository
	deps     Deps
	now      func() time.Time
}

func NewTaskService(taskRepo repository.TaskRepository, deps Deps) TaskService {
	return &taskService{taskRepo: taskRepo, deps: deps, now: time.Now}
}

var _ TaskService = (*taskService)(nil)

func (s *taskService) ListTasks(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]models.Task, int64, error) {
	logger.L().Info("list tasks", zap.String("status", string(filter.Status)), zap.String("category", filter.Category))
	return s.taskRepo.List(ctx, filter, page)
}

func (s *taskService) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	logger.L().Info("get task", zap.String("task_id", taskID.String()))
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, taskID, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask posts a task owned by the caller.
func (s *taskService) CreateTask(ctx context.Context, actor Actor, input *CreateTaskInput) (*models.Task, error) {
	logger.L().Info("create task called", zap.String("user_id", actor.ID.String()), zap.String("title", input.Title))
	if actor.Role != models.RoleEmployer && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	t := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		EmployerID:  actor.ID,
		Budget:      input.Budget,
		Deadline:    input.Deadline,
		Status:      models.TaskOpen,
		Skills:      pq.StringArray(input.Skills),
		Category:    input.Category,
		Location:    input.Location,
		IsRemote:    input.IsRemote,
	}
	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventTaskCreated)
	logger.L().Info("task created", zap.String("task_id", t.ID.String()), zap.String("user_id", actor.ID.String()))
	return t, nil
}

func (s *taskService) UpdateTask(ctx context.Context, actor Actor, taskID uuid.UUID, input *UpdateTaskInput) (*models.Task, error) {
	logger.L().Info("update task", zap.String("task_id", taskID.String()), zap.String("user_id", actor.ID.String()))
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, taskID, &t); err != nil {
		return nil, err
	}
	if !actor.Owns(t.EmployerID) {
		return nil, ErrForbidden
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, observe(models.ErrInvalidStatus)
		}
		if !t.Status.CanTransition(*input.Status) {
			return nil, observe(models.ErrInvalidStatusTransition)
		}
	}
	if input.Deadline != nil && !input.Deadline.Equal(t.Deadline) {
		if err := models.CheckDeadline(*input.Deadline, s.now()); err != nil {
			return nil, observe(err)
		}
		t.Deadline = *input.Deadline
	}

	completing := input.Status != nil && *input.Status == models.TaskCompleted && t.Status != models.TaskCompleted
	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Budget != nil {
		t.Budget = *input.Budget
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.Skills != nil {
		t.Skills = pq.StringArray(input.Skills)
	}
	if input.Category != nil {
		t.Category = *input.Category
	}
	if input.Location != nil {
		t.Location = input.Location
	}
	if input.IsRemote != nil {
		t.IsRemote = *input.IsRemote
	}
	if input.AssignedTo != nil {
		t.AssignedTo = input.AssignedTo
	}

	if err := s.taskRepo.Update(ctx, &t); err != nil {
		return nil, observe(err)
	}

	if completing && t.AssignedTo != nil {
		s.deps.enqueueBadgeEvaluation(ctx, *t.AssignedTo)
	}
	logger.L().Info("task updated", zap.String("task_id", taskID.String()), zap.String("status", string(t.Status)))
	return &t, nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor Actor, taskID uuid.UUID) error {
	logger.L().Info("delete task", zap.String("task_id", taskID.String()), zap.String("user_id", actor.ID.String()))
	var t models.Task
	if err := s.taskRepo.GetByID(ctx, taskID, &t); err != nil {
		return err
	}
	if !actor.Owns(t.EmployerID) {
		return ErrForbidden
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}
	logger.L().Info("task deleted", zap.String("task_id", taskID.String()))
	return nil
}
