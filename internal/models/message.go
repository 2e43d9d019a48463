package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Message is a direct message between two users, optionally about a task.
type Message struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_pair,priority:1" json:"sender"`
	ReceiverID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_pair,priority:2;index" json:"receiver"`
	TaskID      *uuid.UUID     `gorm:"type:uuid;index" json:"task,omitempty"`
	Content     string         `gorm:"type:varchar(5000);not null" json:"content"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`
	Read        bool           `gorm:"not null;index" json:"read"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	return CheckMessageParties(m.SenderID, m.ReceiverID)
}
