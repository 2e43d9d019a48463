package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatEntry is a message embedded in a Chat document.
type ChatEntry struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Chat is a multi-party conversation that keeps its messages inline.
type Chat struct {
	ID           uuid.UUID                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Participants pq.StringArray                 `gorm:"type:text[];not null" json:"participants"`
	TaskID       *uuid.UUID                     `gorm:"type:uuid;index" json:"task,omitempty"`
	Messages     datatypes.JSONSlice[ChatEntry] `gorm:"type:jsonb" json:"messages"`
	LastMessage  *ChatEntry                     `gorm:"type:jsonb;serializer:json" json:"lastMessage,omitempty"`
	IsActive     bool                           `gorm:"not null;index" json:"isActive"`
	CreatedAt    time.Time                      `json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

// HasParticipant reports whether userID takes part in the chat.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	id := userID.String()
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Append adds an entry to the chat; LastMessage is refreshed on save.
func (c *Chat) Append(e ChatEntry) {
	c.Messages = append(c.Messages, e)
}

// BeforeSave checks the participant set and keeps LastMessage equal to the final entry.
func (c *Chat) BeforeSave(tx *gorm.DB) error {
	seen := make(map[string]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		if _, err := uuid.Parse(p); err != nil {
			return ErrInvalidParticipants
		}
		seen[p] = struct{}{}
	}
	if len(seen) < 2 || len(seen) != len(c.Participants) {
		return ErrInvalidParticipants
	}
	if n := len(c.Messages); n > 0 {
		last := c.Messages[n-1]
		c.LastMessage = &last
	}
	return nil
}
