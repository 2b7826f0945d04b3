package email

import (
	"context"
	"log/slog"
)

// LogSender writes every message to the logger instead of delivering it.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a sender that logs at info level.
// A nil logger falls back to slog.Default().
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{logger: log.With(slog.String("component", "email"))}
}

// SendEmail validates params and logs them.
func (s *LogSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email sent",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)
	return nil
}
