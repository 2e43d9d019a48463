package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/logger"
)

type actorKeyType string

const actorKey actorKeyType = "actor"

// SessionVerifier resolves a bearer token to the calling actor.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*services.Actor, error)
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	ah := r.Header.Get("Authorization")
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// Auth validates the Bearer session token and adds the actor to context.
func Auth(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "no token, authorization denied")
				return
			}
			actor, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "token is not valid")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), *actor)))
		})
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "you are not allowed to do this")
		})
	}
}

// WithActor stores the caller and tags the request logger with its id.
func WithActor(ctx context.Context, a services.Actor) context.Context {
	noteUser(ctx, a.ID.String())
	ctx = logger.With(ctx, zap.String("user_id", a.ID.String()))
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the authenticated actor stored by Auth.
func ActorFrom(ctx context.Context) (services.Actor, bool) {
	a, ok := ctx.Value(actorKey).(services.Actor)
	return a, ok
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: false, Error: &types.APIError{Code: code, Message: msg}})
}
