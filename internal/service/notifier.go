package service

import (
	"context"

	"cmbs_reminder/internal/logger"
)

// Notifier dispatches one reminder to its recipient. The side effect is
// external and opaque; false means the reminder was not delivered.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) bool
}

// LogNotifier writes reminders to the log instead of a real channel. It
// stands in for the email/Slack dispatcher.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, recipient, subject, body string) bool {
	logger.Info("reminder dispatched",
		"to", recipient,
		"subject", subject,
		"body", truncate(body, 500),
	)
	return true
}
