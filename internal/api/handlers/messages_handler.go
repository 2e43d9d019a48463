package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/services"
)

type MessagesHandler struct {
	svc services.MessageService
}

func NewMessagesHandler(svc services.MessageService) *MessagesHandler {
	return &MessagesHandler{svc: svc}
}

// List returns messages the caller sent or received, newest first.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	items, total, err := h.svc.ListMessages(r.Context(), actor(r), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *MessagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMessage(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (h *MessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.MessageCreateRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.SendMessage(r.Context(), actor(r), &services.SendMessageInput{
		ReceiverID:  req.ReceiverID,
		TaskID:      req.TaskID,
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.MarkRead(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	a, ok := pathID(w, r, "user1")
	if !ok {
		return
	}
	b, ok := pathID(w, r, "user2")
	if !ok {
		return
	}
	taskID, ok := queryID(w, r, "taskId")
	if !ok {
		return
	}
	page := pageFrom(r)
	items, total, err := h.svc.Conversation(r.Context(), actor(r), a, b, taskID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *MessagesHandler) Unread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	n, err := h.svc.UnreadCount(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"count": n})
}
