package port

import (
	"context"
	"time"
)

// Mailer dispatches transactional email. SendVerificationCode failures are
// surfaced to the caller (registration rolls the user back); SendWelcome is
// best-effort.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, name, code string, expiresAt time.Time) error
	SendWelcome(ctx context.Context, email, name string) error
}
