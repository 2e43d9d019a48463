package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type verifierFunc func(ctx context.Context, token string) (*services.Actor, error)

func (f verifierFunc) VerifySession(ctx context.Context, token string) (*services.Actor, error) {
	return f(ctx, token)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *types.APIError {
	t.Helper()
	var resp types.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestAuth(t *testing.T) {
	user := uuid.New()
	verifier := verifierFunc(func(_ context.Context, token string) (*services.Actor, error) {
		if token != "good" {
			return nil, services.ErrInvalidToken
		}
		return &services.Actor{ID: user, Role: models.RoleEmployer}, nil
	})

	var seen services.Actor
	h := Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized", decodeError(t, rr).Code)
			}
		})
	}
	assert.Equal(t, user, seen.ID)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = req.WithContext(WithActor(req.Context(), services.Actor{ID: uuid.New(), Role: models.RoleStudent}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = req.WithContext(WithActor(req.Context(), services.Actor{ID: uuid.New(), Role: models.RoleAdmin}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiterSweep(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Now()
	l.now = func() time.Time { return now }
	require.True(t, l.Allow("10.0.0.1"))

	now = now.Add(11 * time.Minute)
	l.Sweep()
	assert.Empty(t, l.visitors)
}

func TestClientIPIgnoresForwardedHeaderFromUntrustedPeer(t *testing.T) {
	l := NewRateLimiter(1, 1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.9:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "198.51.100.9", l.clientIP(req))
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	l := NewRateLimiter(1, 1, netip.MustParsePrefix("10.0.0.0/8"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:80"

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", l.clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.2", l.clientIP(req))
}

func TestSpoofedForwardedForSharesOneBucket(t *testing.T) {
	l := NewRateLimiter(1, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 2)
	for _, spoof := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.9:4321"
		req.Header.Set("X-Forwarded-For", spoof)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecoveryAnswersWithEnvelope(t *testing.T) {
	h := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "internal", decodeError(t, rr).Code)
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingRecordsRequestAndUser(t *testing.T) {
	prev := logger.L()
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(prev) })

	user := uuid.New()
	verifier := verifierFunc(func(context.Context, string) (*services.Actor, error) {
		return &services.Actor{ID: user, Role: models.RoleStudent}, nil
	})
	h := RequestID(Logging(Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer any")
	req.Header.Set("X-Request-ID", "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, user.String(), fields["user_id"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
}
