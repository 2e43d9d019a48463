package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment records money moving from an employer to a student for a completed task.
type Payment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"task"`
	EmployerID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"employer"`
	StudentID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"student"`
	Amount        float64        `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string         `gorm:"type:varchar(8);not null" json:"currency"`
	Status        PaymentStatus  `gorm:"type:varchar(16);index;not null" json:"status"`
	PaymentMethod string         `gorm:"not null" json:"paymentMethod"`
	TransactionID string         `json:"transactionId,omitempty"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return CheckAmount(p.Amount)
}

// BeforeCreate only lets payments through for completed tasks.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	return RequireCompletedTask(p.TaskID, taskStatusFrom(tx))
}
