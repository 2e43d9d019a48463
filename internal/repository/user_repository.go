package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

// UserFilter narrows user listings. Empty fields are ignored.
type UserFilter struct {
	Role     models.Role
	Skill    string
	Location string
	Query    string
}

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	List(ctx context.Context, f UserFilter, page Page) ([]models.User, int64, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(dest).Error
	if err != nil {
		return translateError(err, "get user by email")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter, page Page) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Skill != "" {
		q = q.Where("profile->'skills' @> to_jsonb(ARRAY[?]::text[])", f.Skill)
	}
	if f.Location != "" {
		q = q.Where("profile->>'location' ILIKE ?", "%"+f.Location+"%")
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	return listPage[models.User](q, page, "created_at DESC", "list users")
}

// TouchLastLogin records a successful login without running the save hooks.
func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", at)
	if res.Error != nil {
		return translateError(res.Error, "update last login")
	}
	return nil
}

// Deactivate marks the account inactive and soft-deletes it in one transaction.
func (r *userRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).UpdateColumn("is_active", false)
		if res.Error != nil {
			return translateError(res.Error, "deactivate user")
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return translateError(err, "delete user")
		}
		return nil
	})
}
