// Package mailer delivers one-time codes to account email addresses.
package mailer

import (
	"context"

	"github.com/beatstream/accounts/internal/logging"
)

type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendRecoveryCode(ctx context.Context, email, code string) error
}

// LogMailer writes outgoing codes to the log instead of sending mail. It is
// the delivery backend for local development and tests.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.logger.Info(ctx, "verification code issued", "email", email, "code", code)
	return nil
}

func (m *LogMailer) SendRecoveryCode(ctx context.Context, email, code string) error {
	m.logger.Info(ctx, "recovery code issued", "email", email, "code", code)
	return nil
}
