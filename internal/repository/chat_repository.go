package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pay4skill/server/internal/models"
)

type ChatRepository interface {
	BaseRepository[models.Chat]
	ListForUser(ctx context.Context, userID uuid.UUID, page Page) ([]models.Chat, int64, error)
	FindActive(ctx context.Context, participants []string, taskID *uuid.UUID, dest *models.Chat) error
	AppendMessage(ctx context.Context, chatID uuid.UUID, entry models.ChatEntry) (*models.Chat, error)
}

type chatRepository struct {
	BaseRepository[models.Chat]
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{BaseRepository: NewBaseRepository[models.Chat](db, "chat"), db: db}
}

func (r *chatRepository) ListForUser(ctx context.Context, userID uuid.UUID, page Page) ([]models.Chat, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Chat{}).
		Where("? = ANY(participants) AND is_active = ?", userID.String(), true)
	return listPage[models.Chat](q, page, "updated_at DESC", "list chats")
}

// FindActive loads the active chat whose participant set equals participants and which belongs
// to the same task (or to none).
func (r *chatRepository) FindActive(ctx context.Context, participants []string, taskID *uuid.UUID, dest *models.Chat) error {
	set := pq.StringArray(participants)
	q := r.db.WithContext(ctx).
		Where("participants @> ? AND participants <@ ? AND is_active = ?", set, set, true)
	if taskID != nil {
		q = q.Where("task_id = ?", *taskID)
	} else {
		q = q.Where("task_id IS NULL")
	}
	if err := q.Order("created_at ASC").First(dest).Error; err != nil {
		return translateError(err, "find chat")
	}
	return nil
}

// AppendMessage adds an entry under a row lock so concurrent senders cannot drop each other's
// messages. The save hook refreshes LastMessage.
func (r *chatRepository) AppendMessage(ctx context.Context, chatID uuid.UUID, entry models.ChatEntry) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&chat, "id = ?", chatID).Error; err != nil {
			return translateError(err, "load chat")
		}
		chat.Append(entry)
		if err := tx.Save(&chat).Error; err != nil {
			return translateError(err, "append chat message")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}
