package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
)

type ReviewFilter struct {
	TaskID     *uuid.UUID
	ReviewerID *uuid.UUID
	RevieweeID *uuid.UUID
	PublicOnly bool
}

type ReviewRepository interface {
	BaseRepository[models.Review]
	List(ctx context.Context, f ReviewFilter, page Page) ([]models.Review, int64, error)
}

type reviewRepository struct {
	BaseRepository[models.Review]
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{BaseRepository: NewBaseRepository[models.Review](db, "review"), db: db}
}

func (r *reviewRepository) List(ctx context.Context, f ReviewFilter, page Page) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{})
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.ReviewerID != nil {
		q = q.Where("reviewer_id = ?", *f.ReviewerID)
	}
	if f.RevieweeID != nil {
		q = q.Where("reviewee_id = ?", *f.RevieweeID)
	}
	if f.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	return listPage[models.Review](q, page, "created_at DESC", "list reviews")
}
