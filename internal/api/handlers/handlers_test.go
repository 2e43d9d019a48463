package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pay4skill/server/internal/api/middleware"
	"github.com/pay4skill/server/internal/api/types"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, input *services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, input)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) VerifySession(ctx context.Context, token string) (*services.Actor, error) {
	args := m.Called(ctx, token)
	if r := args.Get(0); r != nil {
		return r.(*services.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

type mockTaskService struct{ mock.Mock }

func (m *mockTaskService) ListTasks(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]models.Task, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Task), args.Get(1).(int64), args.Error(2)
}

func (m *mockTaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if r := args.Get(0); r != nil {
		return r.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) CreateTask(ctx context.Context, actor services.Actor, input *services.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, actor, input)
	if r := args.Get(0); r != nil {
		return r.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, actor services.Actor, taskID uuid.UUID, input *services.UpdateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, actor, taskID, input)
	if r := args.Get(0); r != nil {
		return r.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, actor services.Actor, taskID uuid.UUID) error {
	return m.Called(ctx, actor, taskID).Error(0)
}

var ctxAny = mock.Anything

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) types.APIResponse {
	t.Helper()
	var resp types.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		setup  func(m *mockAuthService)
		status int
		code   string
		reason string
	}{
		{
			name:   "empty body",
			body:   "",
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "malformed json",
			body:   "{",
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "missing email",
			body:   `{"name":"Ann","password":"secret123"}`,
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name: "duplicate email",
			body: `{"name":"Ann","email":"ann@example.com","password":"secret123"}`,
			setup: func(m *mockAuthService) {
				m.On("Register", ctxAny, mock.Anything).Return(nil, models.ErrEmailInUse)
			},
			status: http.StatusConflict,
			code:   "conflict",
			reason: "email_in_use",
		},
		{
			name: "created",
			body: `{"name":"Ann","email":"ann@example.com","password":"secret123","role":"employer"}`,
			setup: func(m *mockAuthService) {
				m.On("Register", ctxAny, &services.RegisterInput{
					Name: "Ann", Email: "ann@example.com", Password: "secret123", Role: models.RoleEmployer,
				}).Return(&services.AuthResult{Token: "tok"}, nil)
			},
			status: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			rr := httptest.NewRecorder()
			NewAuthHandler(svc).Register(rr, jsonRequest(http.MethodPost, "/api/auth/register", tt.body))

			assert.Equal(t, tt.status, rr.Code)
			resp := decodeResponse(t, rr)
			if tt.code != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.code, resp.Error.Code)
				if tt.reason != "" {
					assert.Equal(t, tt.reason, resp.Error.Reason)
				}
			} else {
				assert.True(t, resp.Success)
				assert.Equal(t, "tok", resp.Data.(map[string]any)["token"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", ctxAny, "ann@example.com", "wrong-pass").Return(nil, services.ErrInvalidCredentials)

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rr, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"wrong-pass"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_credentials", decodeResponse(t, rr).Error.Reason)
}

func TestForgotPasswordAlwaysAcknowledges(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ForgotPassword", ctxAny, "nobody@example.com").Return(nil)

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).ForgotPassword(rr, jsonRequest(http.MethodPost, "/api/auth/forgot-password", `{"email":"nobody@example.com"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeResponse(t, rr).Success)
}

func TestMeUsesAuthenticatedActor(t *testing.T) {
	id := uuid.New()
	svc := &mockAuthService{}
	svc.On("CurrentUser", ctxAny, id).Return(&models.User{ID: id, Name: "Ann"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), services.Actor{ID: id, Role: models.RoleStudent}))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Me(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestCreateTaskPassesActor(t *testing.T) {
	employer := services.Actor{ID: uuid.New(), Role: models.RoleEmployer}
	svc := &mockTaskService{}
	svc.On("CreateTask", ctxAny, employer, mock.MatchedBy(func(in *services.CreateTaskInput) bool {
		return in.Title == "Logo" && in.Budget.Amount == 150 && in.IsRemote
	})).Return(&models.Task{ID: uuid.New(), Title: "Logo"}, nil)

	body := `{"title":"Logo","description":"Design a logo","budget":{"amount":150,"currency":"USD"},
		"deadline":"2099-01-01T00:00:00Z","category":"design","isRemote":true}`
	req := jsonRequest(http.MethodPost, "/api/tasks", body)
	req = req.WithContext(middleware.WithActor(req.Context(), employer))
	rr := httptest.NewRecorder()
	NewTasksHandler(svc).Create(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestTaskRoutesMapErrors(t *testing.T) {
	svc := &mockTaskService{}
	missing := uuid.New()
	svc.On("GetTask", ctxAny, missing).Return(nil, models.ErrTaskNotFound)
	svc.On("ListTasks", ctxAny, mock.Anything, mock.Anything).Return([]models.Task{}, int64(0), appErr.New(appErr.CodeUnavailable, "database down"))

	h := NewTasksHandler(svc)
	r := chi.NewRouter()
	r.Get("/api/tasks", h.List)
	r.Get("/api/tasks/{id}", h.Get)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"bad id", "/api/tasks/not-a-uuid", http.StatusBadRequest},
		{"not found", "/api/tasks/" + missing.String(), http.StatusNotFound},
		{"bad remote flag", "/api/tasks?remote=maybe", http.StatusBadRequest},
		{"store unavailable", "/api/tasks", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.False(t, decodeResponse(t, rr).Success)
		})
	}
}

func TestListTasksReturnsPageMeta(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("ListTasks", ctxAny, repository.TaskFilter{Category: "design"}, repository.Page{Number: 2, Size: 5}).
		Return([]models.Task{{Title: "Logo"}}, int64(6), nil)

	rr := httptest.NewRecorder()
	NewTasksHandler(svc).List(rr, httptest.NewRequest(http.MethodGet, "/api/tasks?category=design&page=2&page_size=5", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 5, resp.Meta.PageSize)
	assert.Equal(t, int64(6), resp.Meta.Total)
}

type upgraderFunc func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)

func (f upgraderFunc) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	f(w, r, userID)
}

func TestWSConnectAuthenticates(t *testing.T) {
	user := uuid.New()
	verifier := &mockAuthService{}
	verifier.On("VerifySession", ctxAny, "good").Return(&services.Actor{ID: user, Role: models.RoleStudent}, nil)
	verifier.On("VerifySession", ctxAny, "bad").Return(nil, services.ErrInvalidToken)

	var served uuid.UUID
	h := NewWSHandler(verifier, upgraderFunc(func(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
		served = id
		w.WriteHeader(http.StatusSwitchingProtocols)
	}))

	rr := httptest.NewRecorder()
	h.Connect(rr, httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.Connect(rr, httptest.NewRequest(http.MethodGet, "/api/ws?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.Connect(rr, httptest.NewRequest(http.MethodGet, "/api/ws?token=good", nil))
	assert.Equal(t, http.StatusSwitchingProtocols, rr.Code)
	assert.Equal(t, user, served)
}
