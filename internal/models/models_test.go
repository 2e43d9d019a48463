package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTaskStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to TaskStatus }{
		{TaskOpen, TaskInProgress},
		{TaskOpen, TaskCancelled},
		{TaskOpen, TaskCompleted},
		{TaskInProgress, TaskCompleted},
		{TaskInProgress, TaskCancelled},
		{TaskCompleted, TaskCompleted},
	}
	for _, c := range allowed {
		assert.True(t, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}

	denied := []struct{ from, to TaskStatus }{
		{TaskCompleted, TaskOpen},
		{TaskCompleted, TaskCancelled},
		{TaskCancelled, TaskInProgress},
		{TaskInProgress, TaskOpen},
	}
	for _, c := range denied {
		assert.False(t, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTaskBeforeSaveDefaults(t *testing.T) {
	task := &Task{Budget: Budget{Amount: 100}}
	require.NoError(t, task.BeforeSave(nil))
	assert.Equal(t, TaskOpen, task.Status)
	assert.Equal(t, "USD", task.Budget.Currency)

	task = &Task{Budget: Budget{Amount: -1}}
	require.ErrorIs(t, task.BeforeSave(nil), ErrNegativeAmount)

	task = &Task{Status: "paused"}
	require.ErrorIs(t, task.BeforeSave(nil), ErrInvalidStatus)
}

func TestGeoPointValidate(t *testing.T) {
	var none *GeoPoint
	require.NoError(t, none.Validate())

	p := &GeoPoint{Coordinates: []float64{13.4, 52.5}}
	require.NoError(t, p.Validate())
	assert.Equal(t, "Point", p.Type)

	require.ErrorIs(t, (&GeoPoint{Coordinates: []float64{1}}).Validate(), ErrInvalidLocation)
	require.ErrorIs(t, (&GeoPoint{Coordinates: []float64{200, 0}}).Validate(), ErrInvalidLocation)
	require.ErrorIs(t, (&GeoPoint{Type: "Polygon", Coordinates: []float64{0, 0}}).Validate(), ErrInvalidLocation)
}

func TestApplicationBeforeSave(t *testing.T) {
	a := &Application{}
	require.NoError(t, a.BeforeSave(nil))
	assert.Equal(t, ApplicationPending, a.Status)
	assert.True(t, a.Status.Active())
	assert.False(t, ApplicationWithdrawn.Active())

	a.Status = "maybe"
	require.ErrorIs(t, a.BeforeSave(nil), ErrInvalidStatus)
}

func TestPaymentBeforeSave(t *testing.T) {
	p := &Payment{Amount: 10, PaymentMethod: "card"}
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, PaymentPending, p.Status)
	assert.Equal(t, DefaultCurrency, p.Currency)

	p = &Payment{Amount: -5}
	require.ErrorIs(t, p.BeforeSave(nil), ErrNegativeAmount)
}

func TestUserPasswordAndNormalisation(t *testing.T) {
	u := &User{Email: "  Alice@Example.COM ", Name: " Alice ", PasswordHash: "plaintext"}
	require.ErrorIs(t, u.BeforeSave(nil), ErrPlaintextPassword)

	require.NoError(t, u.SetPassword("s3cretpass", 4))
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, RoleStudent, u.Role)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cretpass"))
	assert.False(t, u.CheckPassword("wrongpass"))

	u.Role = "superuser"
	require.ErrorIs(t, u.BeforeSave(nil), ErrInvalidRole)
}

func TestChatBeforeSave(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	solo := &Chat{Participants: pq.StringArray{a.String()}}
	require.ErrorIs(t, solo.BeforeSave(nil), ErrInvalidParticipants)

	dup := &Chat{Participants: pq.StringArray{a.String(), a.String()}}
	require.ErrorIs(t, dup.BeforeSave(nil), ErrInvalidParticipants)

	bad := &Chat{Participants: pq.StringArray{a.String(), "nope"}}
	require.ErrorIs(t, bad.BeforeSave(nil), ErrInvalidParticipants)

	c := &Chat{Participants: pq.StringArray{a.String(), b.String()}}
	require.NoError(t, c.BeforeSave(nil))
	assert.Nil(t, c.LastMessage)
	assert.True(t, c.HasParticipant(b))
	assert.False(t, c.HasParticipant(uuid.New()))

	c.Append(ChatEntry{ID: uuid.New(), SenderID: a, Content: "first", CreatedAt: time.Now()})
	c.Append(ChatEntry{ID: uuid.New(), SenderID: b, Content: "second", CreatedAt: time.Now()})
	require.NoError(t, c.BeforeSave(nil))
	require.NotNil(t, c.LastMessage)
	assert.Equal(t, "second", c.LastMessage.Content)
}

func TestBadgeCriteria(t *testing.T) {
	require.ErrorIs(t, BadgeCriteria{}.Validate(), ErrNoBadgeCriteria)
	require.ErrorIs(t, BadgeCriteria{CompletedTasks: intPtr(0)}.Validate(), ErrNoBadgeCriteria)
	require.NoError(t, BadgeCriteria{PositiveRatings: intPtr(3)}.Validate())

	b := &Badge{Name: "Empty"}
	require.ErrorIs(t, b.BeforeSave(nil), ErrNoBadgeCriteria)

	earnings := 500.0
	c := BadgeCriteria{CompletedTasks: intPtr(5), TotalEarnings: &earnings}
	assert.True(t, c.MetBy(UserStats{CompletedTasks: 5, TotalEarnings: 500}))
	assert.False(t, c.MetBy(UserStats{CompletedTasks: 4, TotalEarnings: 900}))
	assert.False(t, c.MetBy(UserStats{CompletedTasks: 9, TotalEarnings: 499.99}))
}

func TestNewReportTarget(t *testing.T) {
	u, task, msg := uuid.New(), uuid.New(), uuid.New()

	_, err := NewReportTarget(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoReportedEntity)

	_, err = NewReportTarget(&u, &task, nil)
	require.ErrorIs(t, err, ErrMultipleReportedEntities)

	_, err = NewReportTarget(&u, &task, &msg)
	require.ErrorIs(t, err, ErrMultipleReportedEntities)

	target, err := NewReportTarget(nil, &task, nil)
	require.NoError(t, err)
	assert.Equal(t, ReportedTask{ID: task}, target)

	r := &Report{ReporterID: u, Reason: "spam", Description: "spam task"}
	require.ErrorIs(t, r.BeforeSave(nil), ErrNoReportedEntity)

	r.SetTarget(target)
	require.NoError(t, r.BeforeSave(nil))
	assert.Equal(t, ReportPending, r.Status)
	assert.Equal(t, ReportTask, r.TargetType)
	assert.Equal(t, target, r.Target())
}

func TestReportStatusClosed(t *testing.T) {
	assert.True(t, ReportResolved.Closed())
	assert.True(t, ReportDismissed.Closed())
	assert.False(t, ReportReviewed.Closed())
	assert.False(t, ReportPending.Closed())
}
