package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/pay4skill/server/pkg/errors"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	user := User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", Role: "student"}
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			write(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   map[string]string{"code": "invalid", "reason": "invalid_credentials", "message": "invalid credentials"},
			})
			return
		}
		write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "tok-1", "user": user}})
	})
	mux.HandleFunc("GET /api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			write(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   map[string]string{"code": "unauthorized", "message": "missing bearer token"},
			})
			return
		}
		u := user
		u.Name = "Ann B"
		write(w, http.StatusOK, map[string]any{"success": true, "data": u})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"success": true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresSessionAndAuthorizesRequests(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	assert.Contains(t, err.Error(), "missing bearer token")

	s, err := c.Login(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	require.NotNil(t, c.Session())

	u, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", u.Name)
	assert.Equal(t, "Ann B", c.Session().User.Name)

	require.NoError(t, c.Logout(ctx))
	assert.Nil(t, c.Session())
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	var ae *appErr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid credentials", ae.Message)
	assert.Equal(t, "invalid_credentials", ae.Reason)
	assert.Nil(t, c.Session())
}

func TestUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Login(context.Background(), "a@b.co", "x")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnavailable))
}

func TestFileStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Init(context.Background()))
	assert.Nil(t, store.Get())

	s := &Session{Token: "tok", User: User{ID: uuid.New(), Role: "employer"}}
	require.NoError(t, store.Set(s))

	// a fresh store hydrates from disk lazily
	reloaded := NewFileStore(path)
	got := reloaded.Get()
	require.NotNil(t, got)
	assert.Equal(t, *s, *got)

	require.NoError(t, reloaded.Clear())
	assert.Nil(t, reloaded.Get())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, reloaded.Clear())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	assert.Error(t, store.Init(context.Background()))
	assert.Nil(t, store.Get())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(&Session{Token: "a"}))
	got := store.Get()
	got.Token = "b"
	assert.Equal(t, "a", store.Get().Token)
}
