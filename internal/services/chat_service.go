package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type ChatService interface {
	OpenChat(ctx context.Context, actor Actor, input *OpenChatInput) (*models.Chat, error)
	ListChats(ctx context.Context, actor Actor, page repository.Page) ([]models.Chat, int64, error)
	GetChat(ctx context.Context, actor Actor, chatID uuid.UUID) (*models.Chat, error)
	PostMessage(ctx context.Context, actor Actor, chatID uuid.UUID, input *PostChatMessageInput) (*models.Chat, error)
}

type OpenChatInput struct {
	Participants []uuid.UUID
	TaskID       *uuid.UUID
}

type PostChatMessageInput struct {
	Content     string
	Attachments []string
}

type chatService struct {
	chatRepo repository.ChatRepository
	deps     Deps
	now      func() time.Time
}

func NewChatService(chatRepo repository.ChatRepository, deps Deps) ChatService {
	return &chatService{chatRepo: chatRepo, deps: deps, now: time.Now}
}

var _ ChatService = (*chatService)(nil)

// participantSet returns the sorted, de-duplicated participants including the caller.
func participantSet(caller uuid.UUID, others []uuid.UUID) []string {
	seen := map[string]struct{}{caller.String(): {}}
	for _, id := range others {
		seen[id.String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// OpenChat returns the active chat for the same participants and task, creating it if needed.
func (s *chatService) OpenChat(ctx context.Context, actor Actor, input *OpenChatInput) (*models.Chat, error) {
	participants := participantSet(actor.ID, input.Participants)
	logger.L().Info("open chat called", zap.String("user_id", actor.ID.String()), zap.Strings("participants", participants))
	if len(participants) < 2 {
		return nil, observe(models.ErrInvalidParticipants)
	}

	var existing models.Chat
	err := s.chatRepo.FindActive(ctx, participants, input.TaskID, &existing)
	if err == nil {
		return &existing, nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	c := &models.Chat{
		Participants: pq.StringArray(participants),
		TaskID:       input.TaskID,
		IsActive:     true,
	}
	if err := s.chatRepo.Create(ctx, c); err != nil {
		return nil, observe(err)
	}
	logger.L().Info("chat created", zap.String("chat_id", c.ID.String()))
	return c, nil
}

func (s *chatService) ListChats(ctx context.Context, actor Actor, page repository.Page) ([]models.Chat, int64, error) {
	logger.L().Info("list chats", zap.String("user_id", actor.ID.String()))
	return s.chatRepo.ListForUser(ctx, actor.ID, page)
}

func (s *chatService) GetChat(ctx context.Context, actor Actor, chatID uuid.UUID) (*models.Chat, error) {
	logger.L().Info("get chat", zap.String("chat_id", chatID.String()), zap.String("user_id", actor.ID.String()))
	var c models.Chat
	if err := s.chatRepo.GetByID(ctx, chatID, &c); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.HasParticipant(actor.ID) {
		return nil, ErrForbidden
	}
	return &c, nil
}

// PostMessage appends to the chat and pushes the entry to the other participants.
func (s *chatService) PostMessage(ctx context.Context, actor Actor, chatID uuid.UUID, input *PostChatMessageInput) (*models.Chat, error) {
	logger.L().Info("post chat message", zap.String("chat_id", chatID.String()), zap.String("user_id", actor.ID.String()))
	var c models.Chat
	if err := s.chatRepo.GetByID(ctx, chatID, &c); err != nil {
		return nil, err
	}
	if !c.HasParticipant(actor.ID) {
		return nil, ErrForbidden
	}
	if !c.IsActive {
		return nil, appErr.New(appErr.CodeInvalid, "chat is closed")
	}

	entry := models.ChatEntry{
		ID:          uuid.New(),
		SenderID:    actor.ID,
		Content:     input.Content,
		Attachments: input.Attachments,
		CreatedAt:   s.now().UTC(),
	}
	updated, err := s.chatRepo.AppendMessage(ctx, chatID, entry)
	if err != nil {
		return nil, observe(err)
	}

	metrics.IncEvent(metrics.EventMessageSent)
	for _, p := range updated.Participants {
		id, err := uuid.Parse(p)
		if err != nil || id == actor.ID {
			continue
		}
		s.deps.notify(id, EventChatMessage, map[string]any{"chatId": chatID, "message": entry})
	}
	logger.L().Info("chat message posted", zap.String("chat_id", chatID.String()), zap.String("entry_id", entry.ID.String()))
	return updated, nil
}
