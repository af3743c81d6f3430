package mail

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/infra/logger"
)

// LoggingMailer logs email payloads instead of delivering them. Used when no
// SMTP host is configured.
type LoggingMailer struct {
	logger *zap.Logger
}

// NewLoggingMailer constructs a development-friendly mailer.
func NewLoggingMailer(lg *zap.Logger) *LoggingMailer {
	return &LoggingMailer{logger: lg}
}

// SendVerificationCode logs the verification code instead of emailing it.
func (m *LoggingMailer) SendVerificationCode(_ context.Context, email, name, code string, expiresAt time.Time) error {
	m.logger.Info("Verification email (logged, not sent)",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("name", name),
		zap.String("code", code),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// SendWelcome logs the welcome email instead of sending it.
func (m *LoggingMailer) SendWelcome(_ context.Context, email, name string) error {
	m.logger.Info("Welcome email (logged, not sent)",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("name", name),
	)
	return nil
}

var _ port.Mailer = (*LoggingMailer)(nil)
