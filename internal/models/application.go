package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// ActiveApplicationStatuses are the statuses that count against the one-application-per-task rule.
var ActiveApplicationStatuses = []ApplicationStatus{ApplicationPending, ApplicationAccepted}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

func (s ApplicationStatus) Active() bool {
	return s == ApplicationPending || s == ApplicationAccepted
}

// UniqueActiveApplicationIndex is the partial unique index that closes the race between two
// concurrent applications by the same student.
const UniqueActiveApplicationIndex = "ux_applications_active"

// Application is a student's proposal for a task.
type Application struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID      uuid.UUID         `gorm:"type:uuid;index;not null" json:"task"`
	StudentID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"student"`
	Proposal    string            `gorm:"type:varchar(2000);not null" json:"proposal"`
	Status      ApplicationStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	Attachments pq.StringArray    `gorm:"type:text[]" json:"attachments,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a *Application) BeforeSave(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// BeforeCreate looks for another active application for the same (task, student) pair.
// The lookup alone is racy; UniqueActiveApplicationIndex is what guarantees the rule.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if !a.Status.Active() {
		return nil
	}
	var n int64
	err := newSession(tx).Model(&Application{}).
		Where("task_id = ? AND student_id = ? AND status IN ?", a.TaskID, a.StudentID, ActiveApplicationStatuses).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateActiveApplication
	}
	return nil
}
