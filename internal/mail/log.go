package mail

import (
	"context"

	"log/slog"
)

// LogMailer is the default sender: it writes the message to the log
// instead of delivering it. Useful for development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail (not delivered)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
