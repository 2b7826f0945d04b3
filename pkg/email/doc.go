// Package email sends transactional messages through a provider-agnostic
// EmailSender.
//
// Three senders are available, picked by Config.Driver through NewSender:
//   - LogSender ("log") writes the message to the structured logger.
//   - DevSender ("dev") saves HTML and JSON metadata files to a directory.
//   - the Postmark client ("postmark") delivers through Postmark.
//
// Every sender validates SendEmailParams first and reports ErrInvalidParams
// for bad input. Delivery failures wrap ErrFailedToSendEmail.
//
// Message bodies are templ components rendered with templates.Render.
// WelcomeEmail builds the "Welcome <email>!" message sent after sign-up:
//
//	params, err := email.WelcomeEmail(ctx, user.Email)
//	if err != nil {
//		return err
//	}
//	return sender.SendEmail(ctx, params)
package email
