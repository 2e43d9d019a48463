package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type MessageService interface {
	SendMessage(ctx context.Context, actor Actor, input *SendMessageInput) (*models.Message, error)
	GetMessage(ctx context.Context, actor Actor, messageID uuid.UUID) (*models.Message, error)
	ListMessages(ctx context.Context, actor Actor, page repository.Page) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, actor Actor, messageID uuid.UUID) (*models.Message, error)
	Conversation(ctx context.Context, actor Actor, a, b uuid.UUID, taskID *uuid.UUID, page repository.Page) ([]models.Message, int64, error)
	UnreadCount(ctx context.Context, actor Actor, userID uuid.UUID) (int64, error)
}

type SendMessageInput struct {
	ReceiverID  uuid.UUID
	TaskID      *uuid.UUID
	Content     string
	Attachments []string
}

type messageService struct {
	messageRepo repository.MessageRepository
	deps        Deps
}

func NewMessageService(messageRepo repository.MessageRepository, deps Deps) MessageService {
	return &messageService{messageRepo: messageRepo, deps: deps}
}

var _ MessageService = (*messageService)(nil)

// SendMessage stores a message from the caller and pushes it to the receiver if connected.
func (s *messageService) SendMessage(ctx context.Context, actor Actor, input *SendMessageInput) (*models.Message, error) {
	logger.L().Info("send message called", zap.String("sender_id", actor.ID.String()), zap.String("receiver_id", input.ReceiverID.String()))
	m := &models.Message{
		SenderID:    actor.ID,
		ReceiverID:  input.ReceiverID,
		TaskID:      input.TaskID,
		Content:     input.Content,
		Attachments: pq.StringArray(input.Attachments),
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventMessageSent)
	s.deps.notify(m.ReceiverID, EventMessage, m)
	logger.L().Info("message sent", zap.String("message_id", m.ID.String()))
	return m, nil
}

func (s *messageService) GetMessage(ctx context.Context, actor Actor, messageID uuid.UUID) (*models.Message, error) {
	logger.L().Info("get message", zap.String("message_id", messageID.String()), zap.String("user_id", actor.ID.String()))
	var m models.Message
	if err := s.messageRepo.GetByID(ctx, messageID, &m); err != nil {
		return nil, err
	}
	if !actor.Owns(m.SenderID) && actor.ID != m.ReceiverID {
		return nil, ErrForbidden
	}
	return &m, nil
}

func (s *messageService) ListMessages(ctx context.Context, actor Actor, page repository.Page) ([]models.Message, int64, error) {
	logger.L().Info("list messages", zap.String("user_id", actor.ID.String()))
	return s.messageRepo.ListForUser(ctx, actor.ID, page)
}

// MarkRead is only open to the receiver.
func (s *messageService) MarkRead(ctx context.Context, actor Actor, messageID uuid.UUID) (*models.Message, error) {
	logger.L().Info("mark message read", zap.String("message_id", messageID.String()), zap.String("user_id", actor.ID.String()))
	var m models.Message
	if err := s.messageRepo.GetByID(ctx, messageID, &m); err != nil {
		return nil, err
	}
	if m.ReceiverID != actor.ID {
		return nil, ErrForbidden
	}
	if m.Read {
		return &m, nil
	}
	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		return nil, err
	}
	m.Read = true
	return &m, nil
}

func (s *messageService) Conversation(ctx context.Context, actor Actor, a, b uuid.UUID, taskID *uuid.UUID, page repository.Page) ([]models.Message, int64, error) {
	logger.L().Info("get conversation", zap.String("user_a", a.String()), zap.String("user_b", b.String()))
	if !actor.IsAdmin() && actor.ID != a && actor.ID != b {
		return nil, 0, ErrForbidden
	}
	return s.messageRepo.Conversation(ctx, a, b, taskID, page)
}

func (s *messageService) UnreadCount(ctx context.Context, actor Actor, userID uuid.UUID) (int64, error) {
	if !actor.Owns(userID) {
		return 0, ErrForbidden
	}
	return s.messageRepo.CountUnread(ctx, userID)
}
