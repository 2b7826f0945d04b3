// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown.
//
// Run blocks until its context is cancelled; the caller owns signal handling,
// typically through signal.NotifyContext:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness and readiness probes built from named
// dependency checks.
package httpserver
