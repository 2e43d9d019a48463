package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/api/middleware"
	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/api/validators"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.APIResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, r *http.Request, items any, total int64, page repository.Page) {
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    items,
		Meta: &types.Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Page:      page.Number,
			PageSize:  page.Size,
			Total:     total,
		},
	})
}

// writeError answers with the status mapped from the error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := appErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: &types.APIError{Code: string(appErr.CodeInvalid), Message: msg}})
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeErrorStr(w, http.StatusBadRequest, "request body is empty")
			return false
		}
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := validators.New().Struct(dst); err != nil {
		writeErrorStr(w, http.StatusBadRequest, validators.Describe(err))
		return false
	}
	return true
}

// pathID parses a uuid path parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &id, true
}

func pageFrom(r *http.Request) repository.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return repository.Page{Number: number, Size: size}.Normalize()
}

// actor returns the authenticated caller. Routes using it sit behind middleware.Auth.
func actor(r *http.Request) services.Actor {
	a, _ := middleware.ActorFrom(r.Context())
	return a
}
