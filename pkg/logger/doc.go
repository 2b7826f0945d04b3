// Package logger builds *slog.Logger instances for the files manager.
//
// New assembles a text or JSON handler from functional options and wraps it
// in LogHandlerDecorator, which runs every registered ContextExtractor when a
// record is handled. This is how request ids and authenticated user ids end up
// on log lines without being passed around explicitly.
//
// Attribute helpers (UserID, FileID, JobID, JobType, Queue, Error...) keep key
// names consistent between the HTTP layer, the job queue and the processors.
// Helpers return an empty slog.Attr for zero inputs, so
//
//	log.InfoContext(ctx, "job done", logger.Error(err))
//
// needs no nil check.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "files-manager"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
