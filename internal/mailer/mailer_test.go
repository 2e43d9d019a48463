package mailer

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay4skill/server/pkg/config"
	"github.com/pay4skill/server/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/reset-password?token=a.b%2Bc", ResetLink("http://localhost:3000/", "a.b+c"))
}

func TestRenderResetEscapesName(t *testing.T) {
	body, err := renderReset("<b>Eve</b>", "http://x/reset-password?token=t")
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, body, `href="http://x/reset-password?token=t"`)
}

func TestNewFallsBackToLogMailer(t *testing.T) {
	m := New(&config.Config{ClientURL: "http://localhost:3000"})
	require.IsType(t, &LogMailer{}, m)
	require.NoError(t, m.SendPasswordReset(context.Background(), "a@example.com", "A", "tok"))

	m = New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, MailFrom: "no-reply@example.com"})
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestSMTPMailerHonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer("127.0.0.1", 1, "", "", "no-reply@example.com", "http://localhost:3000")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.SendPasswordReset(ctx, "a@example.com", "A", "tok"), context.Canceled)
}
