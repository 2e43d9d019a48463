package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/services"
)

type ChatsHandler struct {
	svc services.ChatService
}

func NewChatsHandler(svc services.ChatService) *ChatsHandler {
	return &ChatsHandler{svc: svc}
}

// Open returns the caller's active chat with the same participants and task, creating it when missing.
func (h *ChatsHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req types.ChatCreateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.OpenChat(r.Context(), actor(r), &services.OpenChatInput{Participants: req.Participants, TaskID: req.TaskID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *ChatsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	items, total, err := h.svc.ListChats(r.Context(), actor(r), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *ChatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.svc.GetChat(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *ChatsHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.ChatMessageRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.PostMessage(r.Context(), actor(r), id, &services.PostChatMessageInput{Content: req.Content, Attachments: req.Attachments})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}
