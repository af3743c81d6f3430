package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/infra/config"
	"github.com/arklim/shoplite-api/internal/infra/logger"
)

// SMTPMailer delivers transactional email over SMTP with PLAIN auth.
type SMTPMailer struct {
	cfg    config.SMTPSettings
	logger *zap.Logger
}

// NewSMTPMailer constructs an SMTP-backed mailer.
func NewSMTPMailer(cfg config.SMTPSettings, lg *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: lg}
}

// SendVerificationCode emails the numeric verification code together with its
// expiry time.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}

	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your ShopLite verification code is: %s\r\n\r\n"+
			"The code expires in %d minutes. If you did not create an account, you can ignore this email.\r\n",
		name, code, minutes,
	)

	if err := m.send(ctx, email, "Verify your ShopLite account", body); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}

	m.logger.Info("Verification email sent",
		zap.String("email", logger.MaskEmail(email)),
	)

	return nil
}

// SendWelcome emails a post-verification welcome message.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your email has been verified and your ShopLite account is ready.\r\n\r\n"+
			"Happy shopping!\r\n",
		name,
	)

	if err := m.send(ctx, email, "Welcome to ShopLite", body); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	m.logger.Info("Welcome email sent",
		zap.String("email", logger.MaskEmail(email)),
	)

	return nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

var _ port.Mailer = (*SMTPMailer)(nil)
