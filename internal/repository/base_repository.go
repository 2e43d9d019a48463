package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
}

type baseRepository[T any] struct {
	db   *gorm.DB
	name string
}

// NewBaseRepository returns CRUD operations for T; name is used in error messages.
func NewBaseRepository[T any](db *gorm.DB, name string) BaseRepository[T] {
	return &baseRepository[T]{db: db, name: name}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return translateError(err, "create "+r.name)
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, r.name+" not found")
		}
		return translateError(err, "get "+r.name)
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return translateError(err, "update "+r.name)
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error, "delete "+r.name)
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("%s %v not found", r.name, id))
	}
	return nil
}

const pgUniqueViolation = "23505"

// uniqueViolations maps unique index names to the domain error a violation means.
var uniqueViolations = map[string]error{
	models.UniqueActiveApplicationIndex: models.ErrDuplicateActiveApplication,
	models.UniqueReviewIndex:            models.ErrDuplicateReview,
	models.UniqueEmailIndex:             models.ErrEmailInUse,
	models.UniqueBadgeNameIndex:         models.ErrBadgeNameTaken,
}

// translateError turns driver and GORM errors into AppErrors. Errors raised by model hooks are
// already AppErrors and pass through unchanged.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErr.Wrap(err, appErr.CodeNotFound, op+": not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if domainErr, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return domainErr
		}
		return appErr.Wrap(err, appErr.CodeAlreadyExists, op+": already exists")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return appErr.Wrap(err, appErr.CodeDeadline, op+": timed out")
	}
	if errors.Is(err, context.Canceled) {
		return appErr.Wrap(err, appErr.CodeUnavailable, op+": canceled")
	}
	return appErr.Wrap(err, appErr.CodeInternal, op+" failed")
}

// Page selects a window of a list result. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset((p.Number - 1) * p.Size).Limit(p.Size)
}

// listPage counts the rows matched by q and loads the requested page into dest.
func listPage[T any](q *gorm.DB, page Page, order string, op string) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, op)
	}
	out := make([]T, 0)
	if err := q.Scopes(page.scope).Order(order).Find(&out).Error; err != nil {
		return nil, 0, translateError(err, op)
	}
	return out, total, nil
}
