package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/filesmanager/pkg/email"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
)

// WelcomeTask is the decoded payload of a welcome job.
type WelcomeTask struct {
	UserID string `json:"userId"`
}

// WelcomeProcessor greets new users.
type WelcomeProcessor struct {
	users  UserFinder
	sender email.EmailSender
	logger *slog.Logger
}

// NewWelcomeProcessor returns a processor delivering through sender.
// A nil logger falls back to slog.Default().
func NewWelcomeProcessor(users UserFinder, sender email.EmailSender, log *slog.Logger) *WelcomeProcessor {
	if log == nil {
		log = slog.Default()
	}
	return &WelcomeProcessor{users: users, sender: sender, logger: log}
}

// Handler returns the queue handler bound to TypeWelcome.
func (p *WelcomeProcessor) Handler() queue.Handler {
	return queue.NewTaskHandler[WelcomeTask](TypeWelcome, p.Process)
}

// Process sends the welcome message. Redelivery sends it again.
func (p *WelcomeProcessor) Process(ctx context.Context, task WelcomeTask) error {
	if task.UserID == "" {
		return fmt.Errorf("%w: %s", queue.ErrMissingField, FieldUserID)
	}

	user, found, err := p.users.FindUserByID(ctx, task.UserID)
	if err != nil {
		return fmt.Errorf("find user %s: %w", task.UserID, err)
	}
	if !found {
		return queue.Permanent(fmt.Errorf("%w: user %s", ErrNotFound, task.UserID))
	}

	p.logger.InfoContext(ctx, email.WelcomeSubject(user.Email), logger.UserID(user.ID))

	if p.sender == nil {
		return nil
	}

	params, err := email.WelcomeEmail(ctx, user.Email)
	if err != nil {
		return queue.Permanent(err)
	}
	if err := p.sender.SendEmail(ctx, params); err != nil {
		if errors.Is(err, email.ErrInvalidParams) {
			return queue.Permanent(err)
		}
		return err
	}
	return nil
}
