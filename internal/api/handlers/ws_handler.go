package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pay4skill/server/internal/api/middleware"
	"github.com/pay4skill/server/internal/services"
	appErr "github.com/pay4skill/server/pkg/errors"
)

// Upgrader attaches a websocket to a user.
type Upgrader interface {
	Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID)
}

type WSHandler struct {
	verifier middleware.SessionVerifier
	hub      Upgrader
}

func NewWSHandler(verifier middleware.SessionVerifier, hub Upgrader) *WSHandler {
	return &WSHandler{verifier: verifier, hub: hub}
}

// Connect authenticates with ?token= (browsers cannot set headers on upgrade) or a bearer header.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.BearerToken(r)
	}
	if token == "" {
		writeError(w, r, services.ErrUnauthorized)
		return
	}
	a, err := h.verifier.VerifySession(r.Context(), token)
	if err != nil {
		writeError(w, r, appErr.Wrap(err, appErr.CodeUnauthorized, "token is not valid"))
		return
	}
	h.hub.Serve(w, r, a.ID)
}
