// internal/notify/notify.go
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers an operator-facing message.
// Delivery is best effort: implementations log failures and never return them.
type Notifier interface {
	Send(ctx context.Context, message string)
}

// Log writes messages to the logger only. Used when no channel is configured.
type Log struct {
	log *zap.SugaredLogger
}

func NewLog(log *zap.SugaredLogger) *Log {
	return &Log{log: log}
}

func (l *Log) Send(_ context.Context, message string) {
	l.log.Warnw("notification", "message", message)
}

// Nop drops every message.
type Nop struct{}

func (Nop) Send(context.Context, string) {}
