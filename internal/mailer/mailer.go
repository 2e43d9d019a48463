package mailer

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/pay4skill/server/pkg/config"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
)

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

var resetTemplate = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>We received a request to reset your Pay4Skill password. The link below is valid for a limited time.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not ask for this you can ignore this email.</p>`))

// ResetLink builds the client URL a reset token is delivered to.
func ResetLink(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

func renderReset(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct{ Name, Link string }{name, link}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	clientURL string
}

func NewSMTPMailer(host string, port int, username, password, from, clientURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		clientURL: clientURL,
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderReset(name, ResetLink(m.clientURL, token))
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "render reset email")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your Pay4Skill password")
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.L().Error("smtp send failed", zap.Error(err), zap.String("to", to))
		return appErr.Wrap(err, appErr.CodeUnavailable, "send reset email")
	}
	logger.L().Info("password reset email sent", zap.String("to", to))
	return nil
}

// LogMailer writes the reset link to the log instead of sending it. Used when SMTP is not configured.
type LogMailer struct {
	clientURL string
}

func NewLogMailer(clientURL string) *LogMailer {
	return &LogMailer{clientURL: clientURL}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, name, token string) error {
	logger.L().Info("password reset email (smtp disabled)",
		zap.String("to", to), zap.String("name", name), zap.String("link", ResetLink(m.clientURL, token)))
	return nil
}

// New picks the SMTP mailer when a host is configured.
func New(cfg *config.Config) Mailer {
	if cfg.MailEnabled() {
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.ClientURL)
	}
	return NewLogMailer(cfg.ClientURL)
}
