package file

import (
	"context"
	"fmt"
)

// Storage drivers accepted by Config.Driver.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the blob storage backend.
type Config struct {
	Driver    string   `env:"FILE_STORAGE" envDefault:"local"`
	LocalPath string   `env:"FOLDER_PATH" envDefault:"/tmp/files_manager"`
	S3        S3Config
}

// New builds the storage selected by cfg.Driver.
func New(ctx context.Context, cfg Config, s3opts ...S3Option) (Storage, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalStorage(cfg.LocalPath)
	case DriverS3:
		return NewS3Storage(ctx, cfg.S3, s3opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
