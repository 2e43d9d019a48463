package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type ReportsHandler struct {
	svc services.ReportService
}

func NewReportsHandler(svc services.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ReportCreateRequest
	if !decode(w, r, &req) {
		return
	}
	rep, err := h.svc.FileReport(r.Context(), actor(r), &services.FileReportInput{
		ReportedUser:    req.ReportedUser,
		ReportedTask:    req.ReportedTask,
		ReportedMessage: req.ReportedMessage,
		Reason:          req.Reason,
		Description:     req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, rep)
}

func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ReportFilter{
		Status:     models.ReportStatus(q.Get("status")),
		TargetType: models.ReportType(q.Get("type")),
	}
	page := pageFrom(r)
	items, total, err := h.svc.ListReports(r.Context(), actor(r), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rep, err := h.svc.GetReport(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rep)
}

func (h *ReportsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.ReportUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	input := &services.UpdateReportInput{AdminNotes: req.AdminNotes}
	if req.Status != nil {
		s := models.ReportStatus(*req.Status)
		input.Status = &s
	}
	rep, err := h.svc.UpdateReport(r.Context(), actor(r), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rep)
}
