package email

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/filesmanager/pkg/email/templates"
)

// WelcomeTag marks welcome messages for provider analytics.
const WelcomeTag = "welcome"

// WelcomeSubject returns the greeting used as subject and log line.
func WelcomeSubject(to string) string {
	return "Welcome " + to + "!"
}

// WelcomeEmail renders the welcome message for a new user.
func WelcomeEmail(ctx context.Context, to string) (SendEmailParams, error) {
	body, err := templates.Render(ctx, templates.Welcome(to))
	if err != nil {
		return SendEmailParams{}, fmt.Errorf("render welcome email: %w", err)
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  WelcomeSubject(to),
		BodyHTML: body,
		Tag:      WelcomeTag,
	}, nil
}
