package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

type MessageRepository interface {
	BaseRepository[models.Message]
	ListForUser(ctx context.Context, userID uuid.UUID, page Page) ([]models.Message, int64, error)
	Conversation(ctx context.Context, a, b uuid.UUID, taskID *uuid.UUID, page Page) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
}

type messageRepository struct {
	BaseRepository[models.Message]
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{BaseRepository: NewBaseRepository[models.Message](db, "message"), db: db}
}

// ListForUser lists messages the user sent or received, newest first.
func (r *messageRepository) ListForUser(ctx context.Context, userID uuid.UUID, page Page) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).Where("sender_id = ? OR receiver_id = ?", userID, userID)
	return listPage[models.Message](q, page, "created_at DESC", "list messages")
}

// Conversation lists messages exchanged between a and b in either direction, oldest first.
func (r *messageRepository) Conversation(ctx context.Context, a, b uuid.UUID, taskID *uuid.UUID, page Page) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
	if taskID != nil {
		q = q.Where("task_id = ?", *taskID)
	}
	return listPage[models.Message](q, page, "created_at ASC", "list conversation")
}

func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).UpdateColumn("read", true)
	if res.Error != nil {
		return translateError(res.Error, "mark message read")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "message not found")
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).Count(&n).Error
	if err != nil {
		return 0, translateError(err, "count unread messages")
	}
	return n, nil
}
