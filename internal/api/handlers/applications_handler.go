package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type ApplicationsHandler struct {
	svc services.ApplicationService
}

func NewApplicationsHandler(svc services.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{svc: svc}
}

func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ApplicationFilter{Status: models.ApplicationStatus(r.URL.Query().Get("status"))}
	taskID, ok := queryID(w, r, "task")
	if !ok {
		return
	}
	filter.TaskID = taskID
	h.list(w, r, filter)
}

func (h *ApplicationsHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "studentId")
	if !ok {
		return
	}
	h.list(w, r, repository.ApplicationFilter{StudentID: &id})
}

func (h *ApplicationsHandler) list(w http.ResponseWriter, r *http.Request, filter repository.ApplicationFilter) {
	page := pageFrom(r)
	items, total, err := h.svc.ListApplications(r.Context(), actor(r), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *ApplicationsHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}
	page := pageFrom(r)
	items, total, err := h.svc.ListForTask(r.Context(), actor(r), id, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetApplication(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ApplicationCreateRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.SubmitApplication(r.Context(), actor(r), &services.SubmitApplicationInput{
		TaskID:      req.TaskID,
		Proposal:    req.Proposal,
		Attachments: req.Attachments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, a)
}

func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.StatusRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.UpdateStatus(r.Context(), actor(r), id, models.ApplicationStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}
