package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type ReviewService interface {
	ListReviews(ctx context.Context, filter repository.ReviewFilter, page repository.Page) ([]models.Review, int64, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error)
	CreateReview(ctx context.Context, actor Actor, input *CreateReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, actor Actor, reviewID uuid.UUID, input *UpdateReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error
}

type CreateReviewInput struct {
	TaskID     uuid.UUID
	RevieweeID uuid.UUID
	Rating     int
	Comment    string
	IsPublic   *bool
}

type UpdateReviewInput struct {
	Rating   *int
	Comment  *string
	IsPublic *bool
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	deps       Deps
}

func NewReviewService(reviewRepo repository.ReviewRepository, deps Deps) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, deps: deps}
}

var _ ReviewService = (*reviewService)(nil)

func (s *reviewService) ListReviews(ctx context.Context, filter repository.ReviewFilter, page repository.Page) ([]models.Review, int64, error) {
	logger.L().Info("list reviews")
	return s.reviewRepo.List(ctx, filter, page)
}

func (s *reviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	logger.L().Info("get review", zap.String("review_id", reviewID.String()))
	var r models.Review
	if err := s.reviewRepo.GetByID(ctx, reviewID, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview stores a review written by the caller. The entity hooks reject self-reviews,
// reviews of unfinished tasks and second reviews of the same pair.
func (s *reviewService) CreateReview(ctx context.Context, actor Actor, input *CreateReviewInput) (*models.Review, error) {
	logger.L().Info("create review called", zap.String("task_id", input.TaskID.String()),
		zap.String("reviewer_id", actor.ID.String()), zap.String("reviewee_id", input.RevieweeID.String()))

	r := &models.Review{
		TaskID:     input.TaskID,
		ReviewerID: actor.ID,
		RevieweeID: input.RevieweeID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsPublic:   true,
	}
	if input.IsPublic != nil {
		r.IsPublic = *input.IsPublic
	}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventReviewCreated)
	s.deps.enqueueBadgeEvaluation(ctx, r.RevieweeID)
	logger.L().Info("review created", zap.String("review_id", r.ID.String()))
	return r, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, reviewID uuid.UUID, input *UpdateReviewInput) (*models.Review, error) {
	logger.L().Info("update review", zap.String("review_id", reviewID.String()), zap.String("user_id", actor.ID.String()))
	var r models.Review
	if err := s.reviewRepo.GetByID(ctx, reviewID, &r); err != nil {
		return nil, err
	}
	if r.ReviewerID != actor.ID {
		return nil, ErrForbidden
	}
	if input.Rating != nil {
		r.Rating = *input.Rating
	}
	if input.Comment != nil {
		r.Comment = *input.Comment
	}
	if input.IsPublic != nil {
		r.IsPublic = *input.IsPublic
	}
	if err := s.reviewRepo.Update(ctx, &r); err != nil {
		return nil, observe(err)
	}
	logger.L().Info("review updated", zap.String("review_id", reviewID.String()))
	return &r, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	logger.L().Info("delete review", zap.String("review_id", reviewID.String()), zap.String("user_id", actor.ID.String()))
	var r models.Review
	if err := s.reviewRepo.GetByID(ctx, reviewID, &r); err != nil {
		return err
	}
	if !actor.Owns(r.ReviewerID) {
		return ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
