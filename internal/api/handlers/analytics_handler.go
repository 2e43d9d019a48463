package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/services"
)

type AnalyticsHandler struct {
	svc services.AnalyticsService
}

func NewAnalyticsHandler(svc services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Overview(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, o)
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	d, err := h.svc.Dashboard(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, d)
}
