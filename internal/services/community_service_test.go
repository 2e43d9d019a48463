package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pay4skill/server/internal/models"
	appErr "github.com/pay4skill/server/pkg/errors"
)

func intp(v int) *int { return &v }

func TestParticipantSet(t *testing.T) {
	me := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	other := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	got := participantSet(me, []uuid.UUID{other, me, other})
	assert.Equal(t, []string{other.String(), me.String()}, got)
}

func TestOpenChat(t *testing.T) {
	me := student()
	other := uuid.New()
	chatNotFound := appErr.New(appErr.CodeNotFound, "chat not found")

	t.Run("returns the existing active chat", func(t *testing.T) {
		repo := &mockChatRepo{}
		existing := &models.Chat{ID: uuid.New(), IsActive: true}
		repo.On("FindActive", ctxAny, participantSet(me.ID, []uuid.UUID{other}), (*uuid.UUID)(nil), mock.Anything).Return(existing, nil)
		svc := NewChatService(repo, Deps{})

		c, err := svc.OpenChat(context.Background(), me, &OpenChatInput{Participants: []uuid.UUID{other}})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, c.ID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates a chat including the caller", func(t *testing.T) {
		repo := &mockChatRepo{}
		repo.On("FindActive", ctxAny, mock.Anything, mock.Anything, mock.Anything).Return(nil, chatNotFound)
		repo.On("Create", ctxAny, mock.AnythingOfType("*models.Chat")).Return(nil)
		svc := NewChatService(repo, Deps{})

		c, err := svc.OpenChat(context.Background(), me, &OpenChatInput{Participants: []uuid.UUID{other}})
		require.NoError(t, err)
		assert.True(t, c.IsActive)
		assert.True(t, c.HasParticipant(me.ID))
		assert.True(t, c.HasParticipant(other))
	})

	t.Run("a chat with only yourself is rejected", func(t *testing.T) {
		svc := NewChatService(&mockChatRepo{}, Deps{})
		_, err := svc.OpenChat(context.Background(), me, &OpenChatInput{Participants: []uuid.UUID{me.ID}})
		require.ErrorIs(t, err, models.ErrInvalidParticipants)
	})
}

func TestPostChatMessage(t *testing.T) {
	me := student()
	other := uuid.New()
	chat := &models.Chat{
		ID:           uuid.New(),
		Participants: pq.StringArray{me.ID.String(), other.String()},
		IsActive:     true,
	}

	t.Run("outsiders cannot post", func(t *testing.T) {
		repo := &mockChatRepo{}
		repo.On("GetByID", ctxAny, chat.ID, mock.Anything).Return(chat, nil)
		svc := NewChatService(repo, Deps{})

		_, err := svc.PostMessage(context.Background(), admin(), chat.ID, &PostChatMessageInput{Content: "hi"})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("closed chats reject messages", func(t *testing.T) {
		repo := &mockChatRepo{}
		closed := *chat
		closed.IsActive = false
		repo.On("GetByID", ctxAny, chat.ID, mock.Anything).Return(&closed, nil)
		svc := NewChatService(repo, Deps{})

		_, err := svc.PostMessage(context.Background(), me, chat.ID, &PostChatMessageInput{Content: "hi"})
		require.Error(t, err)
		assert.Equal(t, 400, appErr.HTTPStatus(err))
	})

	t.Run("pushes the entry to the other participants only", func(t *testing.T) {
		repo := &mockChatRepo{}
		notifier := &mockNotifier{}
		repo.On("GetByID", ctxAny, chat.ID, mock.Anything).Return(chat, nil)
		repo.On("AppendMessage", ctxAny, chat.ID, mock.AnythingOfType("models.ChatEntry")).
			Return(func() *models.Chat {
				c := *chat
				return &c
			}(), nil)
		notifier.On("SendToUser", other, EventChatMessage, mock.Anything).Return()
		svc := NewChatService(repo, Deps{Notifier: notifier})

		_, err := svc.PostMessage(context.Background(), me, chat.ID, &PostChatMessageInput{Content: "hi"})
		require.NoError(t, err)
		notifier.AssertExpectations(t)
		notifier.AssertNotCalled(t, "SendToUser", me.ID, mock.Anything, mock.Anything)

		entry := repo.Calls[1].Arguments.Get(2).(models.ChatEntry)
		assert.Equal(t, me.ID, entry.SenderID)
		assert.Equal(t, "hi", entry.Content)
		assert.NotEqual(t, uuid.Nil, entry.ID)
	})
}

func TestEvaluateBadges(t *testing.T) {
	user := uuid.New()
	fast := models.Badge{ID: uuid.New(), Name: "Fast Learner", Criteria: models.BadgeCriteria{CompletedTasks: intp(5)}}
	top := models.Badge{ID: uuid.New(), Name: "Top Rated", Criteria: models.BadgeCriteria{PositiveRatings: intp(10)}}

	repo := &mockBadgeRepo{}
	repo.On("UserStats", ctxAny, user).Return(models.UserStats{CompletedTasks: 6, PositiveRatings: 2}, nil)
	repo.On("All", ctxAny).Return([]models.Badge{fast, top}, nil)
	repo.On("Award", ctxAny, fast.ID, user, mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	repo.On("Award", ctxAny, fast.ID, user, mock.AnythingOfType("time.Time")).Return(false, nil)
	svc := NewBadgeService(repo)

	awarded, err := svc.Evaluate(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "Fast Learner", awarded[0].Name)

	again, err := svc.Evaluate(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, again)
	repo.AssertNotCalled(t, "Award", mock.Anything, top.ID, mock.Anything, mock.Anything)
}

func TestCreateBadge(t *testing.T) {
	repo := &mockBadgeRepo{}
	svc := NewBadgeService(repo)

	_, err := svc.CreateBadge(context.Background(), employer(), &CreateBadgeInput{Name: "Mine"})
	require.ErrorIs(t, err, ErrForbidden)

	repo.On("Create", ctxAny, mock.Anything).Return(models.ErrBadgeNameTaken)
	_, err = svc.CreateBadge(context.Background(), admin(), &CreateBadgeInput{Name: "Top Rated", Criteria: models.BadgeCriteria{PositiveRatings: intp(1)}})
	require.ErrorIs(t, err, models.ErrBadgeNameTaken)
}

func TestFileReport(t *testing.T) {
	reporter := student()
	userID, taskID := uuid.New(), uuid.New()

	t.Run("needs exactly one target", func(t *testing.T) {
		svc := NewReportService(&mockReportRepo{})

		_, err := svc.FileReport(context.Background(), reporter, &FileReportInput{Reason: "spam"})
		require.ErrorIs(t, err, models.ErrNoReportedEntity)

		_, err = svc.FileReport(context.Background(), reporter, &FileReportInput{ReportedUser: &userID, ReportedTask: &taskID, Reason: "spam"})
		require.ErrorIs(t, err, models.ErrMultipleReportedEntities)
	})

	t.Run("records the target", func(t *testing.T) {
		repo := &mockReportRepo{}
		repo.On("Create", ctxAny, mock.AnythingOfType("*models.Report")).Return(nil)
		svc := NewReportService(repo)

		r, err := svc.FileReport(context.Background(), reporter, &FileReportInput{ReportedTask: &taskID, Reason: "scam"})
		require.NoError(t, err)
		assert.Equal(t, models.ReportTask, r.TargetType)
		assert.Equal(t, taskID, r.TargetID)
		assert.Equal(t, models.ReportPending, r.Status)
		assert.Equal(t, reporter.ID, r.ReporterID)
	})
}

func TestUpdateReportResolution(t *testing.T) {
	repo := &mockReportRepo{}
	r := &models.Report{ID: uuid.New(), ReporterID: uuid.New(), Status: models.ReportPending}
	repo.On("GetByID", ctxAny, r.ID, mock.Anything).Return(r, nil)
	repo.On("Update", ctxAny, mock.Anything).Return(nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &reportService{reportRepo: repo, now: func() time.Time { return fixed }}

	_, err := svc.UpdateReport(context.Background(), student(), r.ID, &UpdateReportInput{})
	require.ErrorIs(t, err, ErrForbidden)

	mod := admin()
	resolved := models.ReportResolved
	notes := "banned"
	got, err := svc.UpdateReport(context.Background(), mod, r.ID, &UpdateReportInput{Status: &resolved, AdminNotes: &notes})
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedAt)
	assert.Equal(t, fixed, *got.ResolvedAt)
	assert.Equal(t, mod.ID, *got.ResolvedBy)
	assert.Equal(t, "banned", got.AdminNotes)

	bogus := models.ReportStatus("archived")
	_, err = svc.UpdateReport(context.Background(), mod, r.ID, &UpdateReportInput{Status: &bogus})
	require.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestDashboard(t *testing.T) {
	badges := &mockBadgeRepo{}
	messages := &mockMessageRepo{}
	me := student()
	badges.On("UserStats", ctxAny, me.ID).Return(models.UserStats{CompletedTasks: 3, TotalEarnings: 120}, nil)
	badges.On("ListForUser", ctxAny, me.ID).Return([]models.Badge{{Name: "Fast Learner"}}, nil)
	messages.On("CountUnread", ctxAny, me.ID).Return(int64(2), nil)
	svc := NewAnalyticsService(nil, badges, messages)

	_, err := svc.Dashboard(context.Background(), employer(), me.ID)
	require.ErrorIs(t, err, ErrForbidden)

	d, err := svc.Dashboard(context.Background(), me, me.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Stats.CompletedTasks)
	assert.Len(t, d.Badges, 1)
	assert.Equal(t, int64(2), d.UnreadMessages)

	_, err = svc.Overview(context.Background(), me)
	require.ErrorIs(t, err, ErrForbidden)
}
