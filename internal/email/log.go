package email

import (
	"context"
	"fmt"
	"log/slog"
)

// LogProvider writes emails to the application log instead of sending
// them. Intended for local development and tests.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger.With("component", "email")}
}

func (p *LogProvider) SendEmail(_ context.Context, email *Email) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}

	p.logger.Info("email (log provider, not sent)",
		"to", email.To,
		"subject", email.Subject,
		"text", email.Text,
	)
	return nil
}
