package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
)

// TaskFilter narrows task listings. Empty fields are ignored.
type TaskFilter struct {
	Status     models.TaskStatus
	Category   string
	Skill      string
	Remote     *bool
	Query      string
	EmployerID *uuid.UUID
}

type TaskRepository interface {
	BaseRepository[models.Task]
	List(ctx context.Context, f TaskFilter, page Page) ([]models.Task, int64, error)
}

type taskRepository struct {
	BaseRepository[models.Task]
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{BaseRepository: NewBaseRepository[models.Task](db, "task"), db: db}
}

func (r *taskRepository) List(ctx context.Context, f TaskFilter, page Page) ([]models.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Task{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Skill != "" {
		q = q.Where("? = ANY(skills)", f.Skill)
	}
	if f.Remote != nil {
		q = q.Where("is_remote = ?", *f.Remote)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.EmployerID != nil {
		q = q.Where("employer_id = ?", *f.EmployerID)
	}
	return listPage[models.Task](q, page, "created_at DESC", "list tasks")
}

// appendApplicant adds the student to the task's applicant set unless already present.
func appendApplicant(tx *gorm.DB, taskID, studentID uuid.UUID) error {
	id := studentID.String()
	return tx.Model(&models.Task{}).
		Where("id = ? AND NOT (? = ANY(COALESCE(applicants, '{}')))", taskID, id).
		UpdateColumn("applicants", gorm.Expr("array_append(COALESCE(applicants, '{}'), ?)", id)).Error
}
