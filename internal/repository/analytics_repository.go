package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
)

// Overview is the platform-wide snapshot shown on the admin dashboard.
type Overview struct {
	UsersByRole      map[string]int64   `json:"usersByRole"`
	TasksByStatus    map[string]int64   `json:"tasksByStatus"`
	PaymentsByStatus map[string]float64 `json:"paymentsByStatus"`
	ReportsByStatus  map[string]int64   `json:"reportsByStatus"`
}

type AnalyticsRepository interface {
	Overview(ctx context.Context) (*Overview, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

type groupCount struct {
	Key   string
	Count int64
}

type groupSum struct {
	Key string
	Sum float64
}

func (r *analyticsRepository) countBy(ctx context.Context, model any, column string) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "count by "+column)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *analyticsRepository) Overview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.UsersByRole, err = r.countBy(ctx, &models.User{}, "role"); err != nil {
		return nil, err
	}
	if o.TasksByStatus, err = r.countBy(ctx, &models.Task{}, "status"); err != nil {
		return nil, err
	}
	if o.ReportsByStatus, err = r.countBy(ctx, &models.Report{}, "status"); err != nil {
		return nil, err
	}

	var sums []groupSum
	err = r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("status AS key, COALESCE(SUM(amount), 0) AS sum").
		Group("status").
		Scan(&sums).Error
	if err != nil {
		return nil, translateError(err, "sum payments by status")
	}
	o.PaymentsByStatus = make(map[string]float64, len(sums))
	for _, row := range sums {
		o.PaymentsByStatus[row.Key] = row.Sum
	}
	return &o, nil
}
