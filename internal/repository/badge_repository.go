package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pay4skill/server/internal/models"
)

type BadgeRepository interface {
	BaseRepository[models.Badge]
	List(ctx context.Context, page Page) ([]models.Badge, int64, error)
	All(ctx context.Context) ([]models.Badge, error)
	GetWithAwards(ctx context.Context, id uuid.UUID, dest *models.Badge) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
	Award(ctx context.Context, badgeID, userID uuid.UUID, at time.Time) (bool, error)
	UserStats(ctx context.Context, userID uuid.UUID) (models.UserStats, error)
}

type badgeRepository struct {
	BaseRepository[models.Badge]
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{BaseRepository: NewBaseRepository[models.Badge](db, "badge"), db: db}
}

func (r *badgeRepository) List(ctx context.Context, page Page) ([]models.Badge, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Badge{})
	return listPage[models.Badge](q, page, "name ASC", "list badges")
}

func (r *badgeRepository) All(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translateError(err, "list badges")
	}
	return out, nil
}

func (r *badgeRepository) GetWithAwards(ctx context.Context, id uuid.UUID, dest *models.Badge) error {
	err := r.db.WithContext(ctx).
		Preload("Awards", func(db *gorm.DB) *gorm.DB { return db.Order("earned_at ASC") }).
		First(dest, "id = ?", id).Error
	if err != nil {
		return translateError(err, "get badge")
	}
	return nil
}

func (r *badgeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	var out []models.Badge
	err := r.db.WithContext(ctx).
		Joins("JOIN badge_awards ON badge_awards.badge_id = badges.id").
		Where("badge_awards.user_id = ?", userID).
		Order("badge_awards.earned_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translateError(err, "list user badges")
	}
	return out, nil
}

// Award records the badge for the user. It reports false when the user already holds it.
func (r *badgeRepository) Award(ctx context.Context, badgeID, userID uuid.UUID, at time.Time) (bool, error) {
	award := models.BadgeAward{BadgeID: badgeID, UserID: userID, EarnedAt: at}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "badge_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&award)
	if res.Error != nil {
		return false, translateError(res.Error, "award badge")
	}
	return res.RowsAffected > 0, nil
}

// UserStats computes the achievements badge criteria are judged against.
func (r *badgeRepository) UserStats(ctx context.Context, userID uuid.UUID) (models.UserStats, error) {
	var s models.UserStats
	db := r.db.WithContext(ctx)

	var completed, timely int64
	err := db.Model(&models.Task{}).
		Where("assigned_to = ? AND status = ?", userID, models.TaskCompleted).
		Count(&completed).Error
	if err != nil {
		return s, translateError(err, "count completed tasks")
	}
	err = db.Model(&models.Task{}).
		Where("assigned_to = ? AND status = ? AND updated_at <= deadline", userID, models.TaskCompleted).
		Count(&timely).Error
	if err != nil {
		return s, translateError(err, "count timely deliveries")
	}

	var positive int64
	err = db.Model(&models.Review{}).
		Where("reviewee_id = ? AND rating >= ?", userID, 4).
		Count(&positive).Error
	if err != nil {
		return s, translateError(err, "count positive ratings")
	}

	var earnings float64
	err = db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("student_id = ? AND status = ?", userID, models.PaymentCompleted).
		Scan(&earnings).Error
	if err != nil {
		return s, translateError(err, "sum earnings")
	}

	s.CompletedTasks = int(completed)
	s.TimelyDeliveries = int(timely)
	s.PositiveRatings = int(positive)
	s.TotalEarnings = earnings
	return s, nil
}
