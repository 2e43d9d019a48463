package migrations

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/pkg/logger"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
		&models.Application{},
		&models.Payment{},
		&models.Review{},
		&models.Message{},
		&models.Chat{},
		&models.Badge{},
		&models.BadgeAward{},
		&models.Report{},
	}
}

// Run executes all database migrations.
func Run(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := enableUUIDExtension(db); err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addActiveApplicationIndex,
		addTaskSearchIndexes,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// enableUUIDExtension ensures gen_random_uuid() is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addActiveApplicationIndex allows at most one pending or accepted application per (task, student).
func addActiveApplicationIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + models.UniqueActiveApplicationIndex + `
		ON applications(task_id, student_id)
		WHERE status IN ('pending', 'accepted')
	`).Error
}

func addTaskSearchIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_skills
		ON tasks USING GIN (skills)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chats_participants
		ON chats USING GIN (participants)
	`).Error
}

func intPtr(v int) *int { return &v }

// DefaultBadges is the catalogue installed by SeedBadges.
func DefaultBadges() []models.Badge {
	return []models.Badge{
		{
			Name:        "Fast Learner",
			Description: "Completed 5 tasks",
			Icon:        "🚀",
			Criteria:    models.BadgeCriteria{CompletedTasks: intPtr(5)},
		},
		{
			Name:        "Top Rated",
			Description: "Received 10 reviews rated 4 stars or more",
			Icon:        "⭐",
			Criteria:    models.BadgeCriteria{PositiveRatings: intPtr(10)},
		},
		{
			Name:        "Team Player",
			Description: "Completed 10 tasks",
			Icon:        "🤝",
			Criteria:    models.BadgeCriteria{CompletedTasks: intPtr(10)},
		},
		{
			Name:        "Problem Solver",
			Description: "Delivered 5 tasks before their deadline",
			Icon:        "🧩",
			Criteria:    models.BadgeCriteria{TimelyDeliveries: intPtr(5)},
		},
	}
}

// SeedBadges inserts the default badges that do not exist yet. It returns the number created.
func SeedBadges(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, b := range DefaultBadges() {
		var existing models.Badge
		err := db.WithContext(ctx).Where("name = ?", b.Name).Take(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("lookup badge %q: %w", b.Name, err)
		}
		badge := b
		if err := db.WithContext(ctx).Create(&badge).Error; err != nil {
			return created, fmt.Errorf("create badge %q: %w", b.Name, err)
		}
		logger.L().Info("badge seeded", zap.String("name", badge.Name), zap.String("badge_id", badge.ID.String()))
		created++
	}
	return created, nil
}
