package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/pkg/logger"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

// Readiness runs every dependency check and reports 503 if any fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.L().Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			status[name] = "down"
			status["status"] = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "up"
	}
	writeJSON(w, code, types.APIResponse{Success: code == http.StatusOK, Data: status})
}
