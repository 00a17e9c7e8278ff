// Package notifier renders analysis reports and delivers them to a chat
// or to the log.
package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a rendered report.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// LogNotifier writes reports to the structured log. It is used when no
// chat is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.With(zap.String("component", "notifier"))}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.logger.Info("report", zap.String("text", text))
	return nil
}
