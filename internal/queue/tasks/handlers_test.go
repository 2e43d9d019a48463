package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/queue"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockBadgeService struct {
	mock.Mock
}

func (m *mockBadgeService) ListBadges(ctx context.Context, page repository.Page) ([]models.Badge, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Badge), args.Get(1).(int64), args.Error(2)
}

func (m *mockBadgeService) GetBadge(ctx context.Context, badgeID uuid.UUID) (*models.Badge, error) {
	args := m.Called(ctx, badgeID)
	if v := args.Get(0); v != nil {
		return v.(*models.Badge), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBadgeService) CreateBadge(ctx context.Context, actor services.Actor, input *services.CreateBadgeInput) (*models.Badge, error) {
	args := m.Called(ctx, actor, input)
	if v := args.Get(0); v != nil {
		return v.(*models.Badge), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBadgeService) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Badge), args.Error(1)
}

func (m *mockBadgeService) UserStats(ctx context.Context, userID uuid.UUID) (models.UserStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserStats), args.Error(1)
}

func (m *mockBadgeService) Evaluate(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]models.Badge), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

func TestBadgeTaskHandler_HandleEvaluate(t *testing.T) {
	t.Run("evaluates the user", func(t *testing.T) {
		svc := &mockBadgeService{}
		user := uuid.New()
		svc.On("Evaluate", mock.Anything, user).Return([]models.Badge{{Name: "Fast Learner"}}, nil)

		task, err := queue.NewBadgeEvaluateTask(user)
		require.NoError(t, err)
		require.NoError(t, NewBadgeTaskHandler(svc).HandleEvaluate(context.Background(), task))
		svc.AssertExpectations(t)
	})

	t.Run("storage errors are retried", func(t *testing.T) {
		svc := &mockBadgeService{}
		user := uuid.New()
		svc.On("Evaluate", mock.Anything, user).Return(nil, errors.New("db down"))

		task, err := queue.NewBadgeEvaluateTask(user)
		require.NoError(t, err)
		err = NewBadgeTaskHandler(svc).HandleEvaluate(context.Background(), task)
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("bad payloads are not retried", func(t *testing.T) {
		svc := &mockBadgeService{}
		h := NewBadgeTaskHandler(svc)

		err := h.HandleEvaluate(context.Background(), asynq.NewTask(queue.TypeBadgeEvaluate, []byte("{")))
		require.ErrorIs(t, err, asynq.SkipRetry)

		pb, _ := json.Marshal(queue.BadgeEvaluatePayload{UserID: "not-a-uuid"})
		err = h.HandleEvaluate(context.Background(), asynq.NewTask(queue.TypeBadgeEvaluate, pb))
		require.ErrorIs(t, err, asynq.SkipRetry)
		svc.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
	})
}

func TestMailTaskHandler_HandlePasswordReset(t *testing.T) {
	m := &mockMailer{}
	m.On("SendPasswordReset", mock.Anything, "a@example.com", "Alice", "tok").Return(nil)
	h := NewMailTaskHandler(m)

	task, err := queue.NewPasswordResetEmailTask("a@example.com", "Alice", "tok")
	require.NoError(t, err)
	require.NoError(t, h.HandlePasswordReset(context.Background(), task))
	m.AssertExpectations(t)

	pb, _ := json.Marshal(queue.PasswordResetEmailPayload{Email: "a@example.com"})
	err = h.HandlePasswordReset(context.Background(), asynq.NewTask(queue.TypePasswordResetEmail, pb))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRegister(t *testing.T) {
	mux := asynq.NewServeMux()
	svc := &mockBadgeService{}
	user := uuid.New()
	svc.On("Evaluate", mock.Anything, user).Return([]models.Badge{}, nil)
	Register(mux, NewBadgeTaskHandler(svc), NewMailTaskHandler(&mockMailer{}))

	task, err := queue.NewBadgeEvaluateTask(user)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	svc.AssertExpectations(t)
}
