package handlers

import (
	"net/http"
	"strconv"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type TasksHandler struct {
	svc services.TaskService
}

func NewTasksHandler(svc services.TaskService) *TasksHandler {
	return &TasksHandler{svc: svc}
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TaskFilter{
		Status:   models.TaskStatus(q.Get("status")),
		Category: q.Get("category"),
		Skill:    q.Get("skill"),
		Query:    q.Get("q"),
	}
	if raw := q.Get("remote"); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			writeErrorStr(w, http.StatusBadRequest, "invalid remote")
			return
		}
		filter.Remote = &remote
	}
	h.list(w, r, filter)
}

func (h *TasksHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerId")
	if !ok {
		return
	}
	h.list(w, r, repository.TaskFilter{EmployerID: &id})
}

func (h *TasksHandler) list(w http.ResponseWriter, r *http.Request, filter repository.TaskFilter) {
	page := pageFrom(r)
	items, total, err := h.svc.ListTasks(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.TaskCreateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.svc.CreateTask(r.Context(), actor(r), &services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Skills:      req.Skills,
		Category:    req.Category,
		Location:    req.Location,
		IsRemote:    req.IsRemote,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.TaskUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	input := &services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Skills:      req.Skills,
		Category:    req.Category,
		Location:    req.Location,
		IsRemote:    req.IsRemote,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		input.Status = &s
	}
	t, err := h.svc.UpdateTask(r.Context(), actor(r), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Task removed"})
}
