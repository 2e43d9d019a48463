package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/services"
)

type BadgesHandler struct {
	svc services.BadgeService
}

func NewBadgesHandler(svc services.BadgeService) *BadgesHandler {
	return &BadgesHandler{svc: svc}
}

func (h *BadgesHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	items, total, err := h.svc.ListBadges(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *BadgesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetBadge(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (h *BadgesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.BadgeCreateRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.svc.CreateBadge(r.Context(), actor(r), &services.CreateBadgeInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    req.Criteria,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, b)
}

func (h *BadgesHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	badges, err := h.svc.ListUserBadges(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, badges)
}

// Evaluate runs badge evaluation inline and returns the newly awarded badges. Admin only.
func (h *BadgesHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	awarded, err := h.svc.Evaluate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, awarded)
}
