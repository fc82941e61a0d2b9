// Package mail delivers plaintext notification emails.
package mail

import (
	"context"
	"errors"

	"user-auth-service/internal/config"
	"user-auth-service/internal/logger"
	"user-auth-service/internal/usecase/user"

	"go.uber.org/zap"
)

var (
	_ user.Notifier = (*SMTPNotifier)(nil)
	_ user.Notifier = (*LogNotifier)(nil)
)

// NewNotifier returns an SMTP notifier when credentials are configured.
// Outside production a missing account falls back to LogNotifier.
func NewNotifier(cfg *config.Config) (user.Notifier, error) {
	if cfg.SMTP.User == "" || cfg.SMTP.Password == "" {
		if cfg.IsProduction() {
			return nil, errors.New("email credentials are missing, set EMAIL_USER and EMAIL_PASS")
		}
		logger.Warn("SMTP credentials not configured, emails will only be logged",
			zap.String("smtp_host", cfg.SMTP.Host),
		)
		return NewLogNotifier(logger.L()), nil
	}

	return NewSMTPNotifier(cfg.SMTP)
}

// LogNotifier records that a message would have been sent. The body carries
// the reset code and is not logged.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, _ string) error {
	n.log.Debug("Email not sent, logging instead",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event", "email_logged"),
	)
	return nil
}
