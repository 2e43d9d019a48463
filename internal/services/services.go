package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

var (
	ErrForbidden          = appErr.Domain(appErr.CodeForbidden, "forbidden", "you are not allowed to do this")
	ErrUnauthorized       = appErr.Domain(appErr.CodeUnauthorized, "unauthorized", "authentication required")
	ErrInvalidCredentials = appErr.Domain(appErr.CodeInvalid, "invalid_credentials", "invalid credentials")
	ErrPasswordTooShort   = appErr.Domain(appErr.CodeInvalid, "password_too_short", "password must be at least 8 characters long")
	ErrInvalidToken       = appErr.Domain(appErr.CodeUnauthorized, "invalid_token", "token is invalid or expired")
	ErrTaskNotOpen        = appErr.Domain(appErr.CodeInvalid, "task_not_open", "task is not accepting applications")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Owns reports whether the actor is the given user or an admin.
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == userID
}

// JobQueue schedules background work. Implementations must be safe for concurrent use.
type JobQueue interface {
	EnqueueBadgeEvaluation(ctx context.Context, userID uuid.UUID) error
	EnqueuePasswordResetEmail(ctx context.Context, email, name, token string) error
}

// Notifier pushes realtime events to connected users.
type Notifier interface {
	SendToUser(userID uuid.UUID, eventType string, data any)
}

// Realtime event types pushed through a Notifier.
const (
	EventMessage     = "message"
	EventChatMessage = "chat_message"
)

// Deps carries the optional collaborators shared by services. Nil members are skipped.
type Deps struct {
	Jobs     JobQueue
	Notifier Notifier
}

func (d Deps) enqueueBadgeEvaluation(ctx context.Context, userID uuid.UUID) {
	if d.Jobs == nil {
		logger.L().Warn("job queue not configured, skipping badge evaluation", zap.String("user_id", userID.String()))
		return
	}
	if err := d.Jobs.EnqueueBadgeEvaluation(ctx, userID); err != nil {
		logger.L().Error("enqueue badge evaluation failed", zap.Error(err), zap.String("user_id", userID.String()))
	}
}

func (d Deps) notify(userID uuid.UUID, eventType string, data any) {
	if d.Notifier != nil {
		d.Notifier.SendToUser(userID, eventType, data)
	}
}

// observe counts writes rejected by a domain rule and returns err unchanged.
func observe(err error) error {
	var ae *appErr.AppError
	if errors.As(err, &ae) && ae.Reason != "" {
		metrics.IncInvariantRejection(ae.Reason)
	}
	return err
}

// asTaskLookup maps a missing task onto the domain error used by the task-dependent rules.
func asTaskLookup(err error) error {
	if appErr.IsCode(err, appErr.CodeNotFound) {
		return models.ErrTaskNotFound
	}
	return err
}
