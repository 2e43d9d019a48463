package handlers

import (
	"net/http"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

type PaymentsHandler struct {
	svc services.PaymentService
}

func NewPaymentsHandler(svc services.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

func (h *PaymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.PaymentFilter{Status: models.PaymentStatus(r.URL.Query().Get("status"))}
	taskID, ok := queryID(w, r, "task")
	if !ok {
		return
	}
	filter.TaskID = taskID
	h.list(w, r, filter)
}

func (h *PaymentsHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerId")
	if !ok {
		return
	}
	h.list(w, r, repository.PaymentFilter{EmployerID: &id})
}

func (h *PaymentsHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "studentId")
	if !ok {
		return
	}
	h.list(w, r, repository.PaymentFilter{StudentID: &id})
}

func (h *PaymentsHandler) list(w http.ResponseWriter, r *http.Request, filter repository.PaymentFilter) {
	page := pageFrom(r)
	items, total, err := h.svc.ListPayments(r.Context(), actor(r), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, items, total, page)
}

func (h *PaymentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPayment(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *PaymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.PaymentCreateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.CreatePayment(r.Context(), actor(r), &services.CreatePaymentInput{
		TaskID:        req.TaskID,
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (h *PaymentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.PaymentStatusRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdateStatus(r.Context(), actor(r), id, models.PaymentStatus(req.Status), req.TransactionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}
