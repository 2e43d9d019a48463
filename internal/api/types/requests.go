package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pay4skill/server/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=student employer admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserCreateRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     string          `json:"role" validate:"omitempty,oneof=student employer admin"`
	Profile  *models.Profile `json:"profile"`
}

type UserUpdateRequest struct {
	Name    *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Profile *models.Profile `json:"profile"`
}

type TaskCreateRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"required"`
	Budget      models.Budget    `json:"budget"`
	Deadline    time.Time        `json:"deadline" validate:"required"`
	Skills      []string         `json:"skills"`
	Category    string           `json:"category" validate:"required"`
	Location    *models.GeoPoint `json:"location"`
	IsRemote    bool             `json:"isRemote"`
}

type TaskUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Budget      *models.Budget   `json:"budget"`
	Deadline    *time.Time       `json:"deadline"`
	Status      *string          `json:"status" validate:"omitempty,oneof=open in-progress completed cancelled"`
	Skills      []string         `json:"skills"`
	Category    *string          `json:"category"`
	Location    *models.GeoPoint `json:"location"`
	IsRemote    *bool            `json:"isRemote"`
	AssignedTo  *uuid.UUID       `json:"assignedTo"`
}

type ApplicationCreateRequest struct {
	TaskID      uuid.UUID `json:"task" validate:"required"`
	Proposal    string    `json:"proposal" validate:"required,max=2000"`
	Attachments []string  `json:"attachments"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PaymentCreateRequest struct {
	TaskID        uuid.UUID      `json:"task" validate:"required"`
	StudentID     uuid.UUID      `json:"student" validate:"required"`
	Amount        float64        `json:"amount" validate:"gte=0"`
	Currency      string         `json:"currency" validate:"omitempty,len=3"`
	PaymentMethod string         `json:"paymentMethod" validate:"required"`
	TransactionID string         `json:"transactionId"`
	Metadata      map[string]any `json:"metadata"`
}

type PaymentStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending completed failed refunded"`
	TransactionID string `json:"transactionId"`
}

type ReviewCreateRequest struct {
	TaskID     uuid.UUID `json:"task" validate:"required"`
	RevieweeID uuid.UUID `json:"reviewee" validate:"required"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string    `json:"comment" validate:"required,max=1000"`
	IsPublic   *bool     `json:"isPublic"`
}

type ReviewUpdateRequest struct {
	Rating   *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment  *string `json:"comment" validate:"omitempty,min=1,max=1000"`
	IsPublic *bool   `json:"isPublic"`
}

type MessageCreateRequest struct {
	ReceiverID  uuid.UUID  `json:"receiver" validate:"required"`
	TaskID      *uuid.UUID `json:"task"`
	Content     string     `json:"content" validate:"required,max=5000"`
	Attachments []string   `json:"attachments"`
}

type ChatCreateRequest struct {
	Participants []uuid.UUID `json:"participants" validate:"required,min=1"`
	TaskID       *uuid.UUID  `json:"task"`
}

type ChatMessageRequest struct {
	Content     string   `json:"content" validate:"required,max=5000"`
	Attachments []string `json:"attachments"`
}

type BadgeCreateRequest struct {
	Name        string               `json:"name" validate:"required,max=100"`
	Description string               `json:"description" validate:"required"`
	Icon        string               `json:"icon" validate:"required"`
	Criteria    models.BadgeCriteria `json:"criteria"`
}

type ReportCreateRequest struct {
	ReportedUser    *uuid.UUID `json:"reportedUser"`
	ReportedTask    *uuid.UUID `json:"reportedTask"`
	ReportedMessage *uuid.UUID `json:"reportedMessage"`
	Reason          string     `json:"reason" validate:"required"`
	Description     string     `json:"description" validate:"required"`
}

type ReportUpdateRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=pending reviewed resolved dismissed"`
	AdminNotes *string `json:"adminNotes"`
}
