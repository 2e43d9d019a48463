package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
)

// Dashboard summarises one user's standing on the marketplace.
type Dashboard struct {
	UserID         uuid.UUID        `json:"userId"`
	Stats          models.UserStats `json:"stats"`
	Badges         []models.Badge   `json:"badges"`
	UnreadMessages int64            `json:"unreadMessages"`
}

type AnalyticsService interface {
	Overview(ctx context.Context, actor Actor) (*repository.Overview, error)
	Dashboard(ctx context.Context, actor Actor, userID uuid.UUID) (*Dashboard, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	badgeRepo     repository.BadgeRepository
	messageRepo   repository.MessageRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, badgeRepo repository.BadgeRepository, messageRepo repository.MessageRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo, badgeRepo: badgeRepo, messageRepo: messageRepo}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) Overview(ctx context.Context, actor Actor) (*repository.Overview, error) {
	logger.L().Info("analytics overview", zap.String("actor_id", actor.ID.String()))
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.analyticsRepo.Overview(ctx)
}

func (s *analyticsService) Dashboard(ctx context.Context, actor Actor, userID uuid.UUID) (*Dashboard, error) {
	logger.L().Info("analytics dashboard", zap.String("user_id", userID.String()))
	if !actor.Owns(userID) {
		return nil, ErrForbidden
	}
	stats, err := s.badgeRepo.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badgeRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{UserID: userID, Stats: stats, Badges: badges, UnreadMessages: unread}, nil
}
