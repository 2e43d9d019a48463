package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/services"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
)

// Task types handled by the worker.
const (
	TypeBadgeEvaluate      = "badge:evaluate"
	TypePasswordResetEmail = "auth:password_reset_email"
)

// BadgeEvaluatePayload is the payload of a badge:evaluate task.
type BadgeEvaluatePayload struct {
	UserID string `json:"user_id"`
}

// PasswordResetEmailPayload is the payload of an auth:password_reset_email task.
type PasswordResetEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client schedules background jobs on asynq.
type Client struct {
	enq Enqueuer
}

func NewClient(enq Enqueuer) *Client {
	return &Client{enq: enq}
}

var _ services.JobQueue = (*Client)(nil)

// NewBadgeEvaluateTask builds a badge evaluation task. Evaluation is idempotent so retries are safe.
func NewBadgeEvaluateTask(userID uuid.UUID) (*asynq.Task, error) {
	pb, err := json.Marshal(BadgeEvaluatePayload{UserID: userID.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBadgeEvaluate, pb, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

func NewPasswordResetEmailTask(email, name, token string) (*asynq.Task, error) {
	pb, err := json.Marshal(PasswordResetEmailPayload{Email: email, Name: name, Token: token})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, pb, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

func (c *Client) EnqueueBadgeEvaluation(ctx context.Context, userID uuid.UUID) error {
	task, err := NewBadgeEvaluateTask(userID)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "build badge task")
	}
	if _, err := c.enq.EnqueueContext(ctx, task); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "enqueue badge evaluation failed")
	}
	logger.L().Info("badge evaluation enqueued", zap.String("user_id", userID.String()))
	return nil
}

func (c *Client) EnqueuePasswordResetEmail(ctx context.Context, email, name, token string) error {
	task, err := NewPasswordResetEmailTask(email, name, token)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "build reset email task")
	}
	if _, err := c.enq.EnqueueContext(ctx, task); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "enqueue reset email failed")
	}
	logger.L().Info("password reset email enqueued", zap.String("email", email))
	return nil
}
