package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type UsersHandler struct {
	svc services.UserService
}

func NewUsersHandler(svc services.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.UserFilter{
		Role:     models.Role(q.Get("role")),
		Skill:    q.Get("skill"),
		Location: q.Get("location"),
		Query:    q.Get("q"),
	}
	page := pageFrom(r)
	items, total, err := h.svc.ListUsers(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.UserCreateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.CreateUser(r.Context(), actor(r), &services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Profile:  req.Profile,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.UserUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), actor(r), id, &services.UpdateUserInput{Name: req.Name, Profile: req.Profile})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "User removed"})
}
