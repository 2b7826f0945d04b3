package queue

import (
	"log/slog"
	"time"
)

// WorkerOption is a functional option for configuring a worker
type WorkerOption func(*workerOptions)

type workerOptions struct {
	queues            []string
	pullInterval      time.Duration
	lockTimeout       time.Duration
	attemptTimeout    time.Duration
	shutdownTimeout   time.Duration
	retryBackoff      time.Duration
	maxConcurrentJobs int
	logger            *slog.Logger
}

// WithQueues sets which queues the worker should pull from
func WithQueues(queues ...string) WorkerOption {
	return func(o *workerOptions) {
		if len(queues) > 0 {
			o.queues = queues
		}
	}
}

// WithPullInterval sets how often the worker checks for new jobs
func WithPullInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pullInterval = d
		}
	}
}

// WithLockTimeout sets how long a claim is leased. A job whose worker
// disappeared becomes claimable again once the lease passes.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// WithAttemptTimeout bounds a single attempt. It must be shorter than the
// lock timeout; otherwise nine tenths of the lock timeout is used.
func WithAttemptTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.attemptTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight attempts.
func WithShutdownTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithRetryBackoff sets the base delay between attempts.
// Attempt n is retried after n*d.
func WithRetryBackoff(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d >= 0 {
			o.retryBackoff = d
		}
	}
}

// WithMaxConcurrentJobs sets the maximum number of concurrent attempts
func WithMaxConcurrentJobs(n int) WorkerOption {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxConcurrentJobs = n
		}
	}
}

// WithWorkerLogger sets the logger for the worker
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
