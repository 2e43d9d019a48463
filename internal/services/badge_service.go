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

type BadgeService interface {
	ListBadges(ctx context.Context, page repository.Page) ([]models.Badge, int64, error)
	GetBadge(ctx context.Context, badgeID uuid.UUID) (*models.Badge, error)
	CreateBadge(ctx context.Context, actor Actor, input *CreateBadgeInput) (*models.Badge, error)
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
	UserStats(ctx context.Context, userID uuid.UUID) (models.UserStats, error)
	Evaluate(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
}

type CreateBadgeInput struct {
	Name        string
	Description string
	Icon        string
	Criteria    models.BadgeCriteria
}

type badgeService struct {
	badgeRepo repository.BadgeRepository
	now       func() time.Time
}

func NewBadgeService(badgeRepo repository.BadgeRepository) BadgeService {
	return &badgeService{badgeRepo: badgeRepo, now: time.Now}
}

var _ BadgeService = (*badgeService)(nil)

func (s *badgeService) ListBadges(ctx context.Context, page repository.Page) ([]models.Badge, int64, error) {
	logger.L().Info("list badges")
	return s.badgeRepo.List(ctx, page)
}

func (s *badgeService) GetBadge(ctx context.Context, badgeID uuid.UUID) (*models.Badge, error) {
	logger.L().Info("get badge", zap.String("badge_id", badgeID.String()))
	var b models.Badge
	if err := s.badgeRepo.GetWithAwards(ctx, badgeID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *badgeService) CreateBadge(ctx context.Context, actor Actor, input *CreateBadgeInput) (*models.Badge, error) {
	logger.L().Info("create badge called", zap.String("name", input.Name), zap.String("actor_id", actor.ID.String()))
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	b := &models.Badge{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		Criteria:    input.Criteria,
	}
	if err := s.badgeRepo.Create(ctx, b); err != nil {
		return nil, observe(err)
	}
	logger.L().Info("badge created", zap.String("badge_id", b.ID.String()), zap.String("name", b.Name))
	return b, nil
}

func (s *badgeService) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	logger.L().Info("list user badges", zap.String("user_id", userID.String()))
	return s.badgeRepo.ListForUser(ctx, userID)
}

func (s *badgeService) UserStats(ctx context.Context, userID uuid.UUID) (models.UserStats, error) {
	return s.badgeRepo.UserStats(ctx, userID)
}

// Evaluate awards every badge whose criteria the user meets and returns the newly awarded ones.
// Running it again awards nothing new.
func (s *badgeService) Evaluate(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	logger.L().Info("evaluate badges", zap.String("user_id", userID.String()))
	stats, err := s.badgeRepo.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badgeRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	awarded := make([]models.Badge, 0)
	for _, b := range badges {
		if !b.Criteria.MetBy(stats) {
			continue
		}
		created, err := s.badgeRepo.Award(ctx, b.ID, userID, s.now())
		if err != nil {
			return awarded, err
		}
		if created {
			awarded = append(awarded, b)
			metrics.IncEvent(metrics.EventBadgeAwarded)
			logger.L().Info("badge awarded", zap.String("badge_id", b.ID.String()), zap.String("user_id", userID.String()))
		}
	}
	return awarded, nil
}
