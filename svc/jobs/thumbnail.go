package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/pkg/thumbnail"
)

// ThumbnailProcessor renders previews of uploaded images.
type ThumbnailProcessor struct {
	files     FileFinder
	blobs     file.Storage
	widths    []int
	maxPixels int
	logger    *slog.Logger
}

// ThumbnailOption configures a ThumbnailProcessor.
type ThumbnailOption func(*ThumbnailProcessor)

// WithWidths replaces thumbnail.DefaultWidths. Widths are processed largest first.
func WithWidths(widths ...int) ThumbnailOption {
	return func(p *ThumbnailProcessor) {
		if len(widths) > 0 {
			p.widths = widths
		}
	}
}

// WithMaxPixels bounds the size of source images; larger ones fail permanently.
func WithMaxPixels(n int) ThumbnailOption {
	return func(p *ThumbnailProcessor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

// WithThumbnailLogger sets the logger.
func WithThumbnailLogger(l *slog.Logger) ThumbnailOption {
	return func(p *ThumbnailProcessor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewThumbnailProcessor returns a processor reading and writing blobs through storage.
func NewThumbnailProcessor(files FileFinder, blobs file.Storage, opts ...ThumbnailOption) *ThumbnailProcessor {
	p := &ThumbnailProcessor{
		files:     files,
		blobs:     blobs,
		widths:    slices.Clone(thumbnail.DefaultWidths),
		maxPixels: thumbnail.DefaultMaxPixels,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	slices.SortFunc(p.widths, func(a, b int) int { return b - a })
	return p
}

// Type implements queue.Handler.
func (p *ThumbnailProcessor) Type() queue.JobType {
	return TypeThumbnail
}

// Handle renders every width of the referenced image. Widths already written
// are kept when a later one fails; the job still reports the failure.
func (p *ThumbnailProcessor) Handle(ctx context.Context, payload queue.Payload) error {
	if err := payload.Require(FieldFileID, FieldUserID); err != nil {
		return err
	}
	fileID, userID := payload.Get(FieldFileID), payload.Get(FieldUserID)

	f, found, err := p.files.FindFileByID(ctx, fileID, userID)
	if err != nil {
		return fmt.Errorf("find file %s: %w", fileID, err)
	}
	if !found || f.StoragePath == "" {
		return queue.Permanent(fmt.Errorf("%w: file %s of user %s", ErrNotFound, fileID, userID))
	}

	data, err := p.blobs.Read(ctx, f.StoragePath)
	if errors.Is(err, file.ErrFileNotFound) {
		return queue.Permanent(fmt.Errorf("%w: content of file %s", ErrNotFound, fileID))
	}
	if err != nil {
		return fmt.Errorf("read file %s: %w", fileID, err)
	}

	src, err := thumbnail.Decode(data, thumbnail.WithMaxPixels(p.maxPixels))
	if err != nil {
		return queue.Permanent(errors.Join(ErrThumbnailFailed, err))
	}

	log := p.logger.With(logger.FileID(fileID), logger.UserID(userID))

	var errs []error
	for _, width := range p.widths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := p.render(ctx, src, f.StoragePath, width); err != nil {
			log.WarnContext(ctx, "thumbnail width failed", slog.Int("width", width), logger.Error(err))
			errs = append(errs, fmt.Errorf("width %d: %w", width, err))
			continue
		}
		log.DebugContext(ctx, "thumbnail written", slog.Int("width", width))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrThumbnailFailed}, errs...)...)
	}
	return nil
}

func (p *ThumbnailProcessor) render(ctx context.Context, src *thumbnail.Source, path string, width int) error {
	out, _, err := src.Scale(width)
	if err != nil {
		return err
	}
	return p.blobs.Write(ctx, thumbnail.Path(path, width), out)
}
