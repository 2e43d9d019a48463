package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskOpen:       {TaskInProgress, TaskCompleted, TaskCancelled},
	TaskInProgress: {TaskCompleted, TaskCancelled},
}

// CanTransition reports whether a task may move from one status to another.
// Writing the current status again is always allowed.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	if s == to {
		return true
	}
	for _, next := range taskTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

const DefaultCurrency = "USD"

type Budget struct {
	Amount   float64 `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Currency string  `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
}

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (p *GeoPoint) Validate() error {
	if p == nil {
		return nil
	}
	if p.Type != "" && p.Type != "Point" {
		return ErrInvalidLocation
	}
	if len(p.Coordinates) != 2 {
		return ErrInvalidLocation
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return ErrInvalidLocation
	}
	p.Type = "Point"
	return nil
}

// Task is a unit of paid work posted by an employer.
type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	EmployerID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"employer"`
	Budget      Budget         `gorm:"embedded;embeddedPrefix:budget_" json:"budget"`
	Deadline    time.Time      `gorm:"not null" json:"deadline"`
	Status      TaskStatus     `gorm:"type:varchar(16);index;not null" json:"status"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	Applicants  pq.StringArray `gorm:"type:text[]" json:"applicants"`
	AssignedTo  *uuid.UUID     `gorm:"type:uuid;index" json:"assignedTo,omitempty"`
	Category    string         `gorm:"index;not null" json:"category"`
	Location    *GeoPoint      `gorm:"type:jsonb;serializer:json" json:"location,omitempty"`
	IsRemote    bool           `gorm:"not null" json:"isRemote"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOwnedBy reports whether userID posted the task.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool { return t.EmployerID == userID }

func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskOpen
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.Budget.Currency == "" {
		t.Budget.Currency = DefaultCurrency
	}
	if err := CheckAmount(t.Budget.Amount); err != nil {
		return err
	}
	return t.Location.Validate()
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	return CheckDeadline(t.Deadline, now())
}
