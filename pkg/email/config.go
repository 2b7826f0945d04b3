package email

import (
	"fmt"
	"log/slog"
)

// Supported delivery drivers.
const (
	DriverLog      = "log"
	DriverDev      = "dev"
	DriverPostmark = "postmark"
)

// Config holds email service configuration.
// Postmark tokens are only required by the postmark driver.
type Config struct {
	Driver               string `env:"EMAIL_DRIVER" envDefault:"log"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"/tmp/files_manager_mail"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@files-manager.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@files-manager.local"`
}

// NewSender builds the sender selected by cfg.Driver.
func NewSender(cfg Config, log *slog.Logger) (EmailSender, error) {
	switch cfg.Driver {
	case DriverLog, "":
		return NewLogSender(log), nil
	case DriverDev:
		return NewDevSender(cfg.DevDir), nil
	case DriverPostmark:
		return NewPostmarkClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
