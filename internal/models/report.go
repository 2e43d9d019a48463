package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportType string

const (
	ReportUser    ReportType = "user"
	ReportTask    ReportType = "task"
	ReportMessage ReportType = "message"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportUser, ReportTask, ReportMessage:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Closed reports whether the status ends the moderation workflow.
func (s ReportStatus) Closed() bool {
	return s == ReportResolved || s == ReportDismissed
}

// ReportTarget is the single entity a report is about.
type ReportTarget interface {
	Kind() ReportType
	EntityID() uuid.UUID
}

type ReportedUser struct{ ID uuid.UUID }
type ReportedTask struct{ ID uuid.UUID }
type ReportedMessage struct{ ID uuid.UUID }

func (r ReportedUser) Kind() ReportType       { return ReportUser }
func (r ReportedUser) EntityID() uuid.UUID    { return r.ID }
func (r ReportedTask) Kind() ReportType       { return ReportTask }
func (r ReportedTask) EntityID() uuid.UUID    { return r.ID }
func (r ReportedMessage) Kind() ReportType    { return ReportMessage }
func (r ReportedMessage) EntityID() uuid.UUID { return r.ID }

// NewReportTarget builds the target from the optional references a client sends.
// Exactly one of them must be set.
func NewReportTarget(user, task, message *uuid.UUID) (ReportTarget, error) {
	var targets []ReportTarget
	if user != nil {
		targets = append(targets, ReportedUser{ID: *user})
	}
	if task != nil {
		targets = append(targets, ReportedTask{ID: *task})
	}
	if message != nil {
		targets = append(targets, ReportedMessage{ID: *message})
	}
	switch len(targets) {
	case 0:
		return nil, ErrNoReportedEntity
	case 1:
		return targets[0], nil
	default:
		return nil, ErrMultipleReportedEntities
	}
}

// Report is a moderation request filed against a user, task or message.
type Report struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReporterID  uuid.UUID    `gorm:"type:uuid;index;not null" json:"reporter"`
	TargetType  ReportType   `gorm:"type:varchar(16);index:idx_reports_target,priority:1;not null" json:"targetType"`
	TargetID    uuid.UUID    `gorm:"type:uuid;index:idx_reports_target,priority:2;not null" json:"targetId"`
	Reason      string       `gorm:"not null" json:"reason"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      ReportStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	AdminNotes  string       `json:"adminNotes,omitempty"`
	ResolvedAt  *time.Time   `json:"resolvedAt,omitempty"`
	ResolvedBy  *uuid.UUID   `gorm:"type:uuid" json:"resolvedBy,omitempty"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SetTarget records t as the reported entity.
func (r *Report) SetTarget(t ReportTarget) {
	r.TargetType = t.Kind()
	r.TargetID = t.EntityID()
}

// Target returns the reported entity as a ReportTarget.
func (r *Report) Target() ReportTarget {
	switch r.TargetType {
	case ReportUser:
		return ReportedUser{ID: r.TargetID}
	case ReportTask:
		return ReportedTask{ID: r.TargetID}
	case ReportMessage:
		return ReportedMessage{ID: r.TargetID}
	}
	return nil
}

func (r *Report) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = ReportPending
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if r.TargetType == "" || r.TargetID == uuid.Nil {
		return ErrNoReportedEntity
	}
	if !r.TargetType.Valid() {
		return ErrInvalidReportType
	}
	return nil
}
