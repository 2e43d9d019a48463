package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type ReviewsHandler struct {
	svc services.ReviewService
}

func NewReviewsHandler(svc services.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{svc: svc}
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	taskID, ok := queryID(w, r, "task")
	if !ok {
		return
	}
	h.list(w, r, repository.ReviewFilter{TaskID: taskID, PublicOnly: true})
}

func (h *ReviewsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	h.list(w, r, repository.ReviewFilter{RevieweeID: &id, PublicOnly: true})
}

func (h *ReviewsHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}
	h.list(w, r, repository.ReviewFilter{TaskID: &id, PublicOnly: true})
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request, filter repository.ReviewFilter) {
	page := pageFrom(r)
	items, total, err := h.svc.ListReviews(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rv, err := h.svc.GetReview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ReviewCreateRequest
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.svc.CreateReview(r.Context(), actor(r), &services.CreateReviewInput{
		TaskID:     req.TaskID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, rv)
}

func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.ReviewUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.svc.UpdateReview(r.Context(), actor(r), id, &services.UpdateReviewInput{
		Rating:   req.Rating,
		Comment:  req.Comment,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteReview(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Review removed"})
}
