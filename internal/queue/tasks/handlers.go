package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/mailer"
	"github.com/pay4skill/server/internal/queue"
	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

// BadgeTaskHandler runs badge evaluation jobs.
type BadgeTaskHandler struct {
	badgeSvc services.BadgeService
}

func NewBadgeTaskHandler(badgeSvc services.BadgeService) *BadgeTaskHandler {
	return &BadgeTaskHandler{badgeSvc: badgeSvc}
}

func (h *BadgeTaskHandler) HandleEvaluate(ctx context.Context, t *asynq.Task) error {
	var p queue.BadgeEvaluatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.Ctx(ctx).Error("invalid badge task payload", zap.Error(err))
		metrics.IncJob(t.Type(), "failed")
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		logger.Ctx(ctx).Error("invalid user id in task", zap.Error(err))
		metrics.IncJob(t.Type(), "failed")
		return fmt.Errorf("parse user id: %v: %w", err, asynq.SkipRetry)
	}

	logger.Ctx(ctx).Info("handling badge evaluation", zap.String("user_id", id.String()))
	awarded, err := h.badgeSvc.Evaluate(ctx, id)
	if err != nil {
		logger.Ctx(ctx).Error("badge evaluation failed", zap.Error(err), zap.String("user_id", id.String()))
		metrics.IncJob(t.Type(), "failed")
		return err
	}

	metrics.IncJob(t.Type(), "success")
	logger.Ctx(ctx).Info("badge evaluation done", zap.String("user_id", id.String()), zap.Int("awarded", len(awarded)))
	return nil
}

// MailTaskHandler delivers queued account emails.
type MailTaskHandler struct {
	mailer mailer.Mailer
}

func NewMailTaskHandler(m mailer.Mailer) *MailTaskHandler {
	return &MailTaskHandler{mailer: m}
}

func (h *MailTaskHandler) HandlePasswordReset(ctx context.Context, t *asynq.Task) error {
	var p queue.PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.Ctx(ctx).Error("invalid reset email payload", zap.Error(err))
		metrics.IncJob(t.Type(), "failed")
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Email == "" || p.Token == "" {
		metrics.IncJob(t.Type(), "failed")
		return fmt.Errorf("reset email payload incomplete: %w", asynq.SkipRetry)
	}

	logger.Ctx(ctx).Info("handling password reset email", zap.String("email", p.Email))
	if err := h.mailer.SendPasswordReset(ctx, p.Email, p.Name, p.Token); err != nil {
		metrics.IncJob(t.Type(), "failed")
		return err
	}
	metrics.IncJob(t.Type(), "success")
	return nil
}

// withTaskLogger tags the job's logger with its type and id.
func withTaskLogger(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		fields := []zap.Field{zap.String("task_type", t.Type())}
		if id, ok := asynq.GetTaskID(ctx); ok {
			fields = append(fields, zap.String("task_id", id))
		}
		return next.ProcessTask(logger.With(ctx, fields...), t)
	})
}

// Register wires the handlers onto an asynq mux.
func Register(mux *asynq.ServeMux, badges *BadgeTaskHandler, mail *MailTaskHandler) {
	mux.Use(withTaskLogger)
	mux.HandleFunc(queue.TypeBadgeEvaluate, badges.HandleEvaluate)
	mux.HandleFunc(queue.TypePasswordResetEmail, mail.HandlePasswordReset)
}
