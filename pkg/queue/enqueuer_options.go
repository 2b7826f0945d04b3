package queue

import (
	"log/slog"
	"time"
)

// EnqueuerOption is a functional option for configuring an Enqueuer
type EnqueuerOption func(*enqueuerOptions)

type enqueuerOptions struct {
	schema            Schema
	defaultQueue      string
	defaultMaxRetries int8
	now               func() time.Time
	logger            *slog.Logger
}

// WithJobType registers jobType with the payload fields it requires.
func WithJobType(jobType JobType, requiredFields ...string) EnqueuerOption {
	return func(o *enqueuerOptions) {
		o.schema[jobType] = append([]string(nil), requiredFields...)
	}
}

// WithSchema registers every job type in s.
func WithSchema(s Schema) EnqueuerOption {
	return func(o *enqueuerOptions) {
		for t, fields := range s {
			o.schema[t] = append([]string(nil), fields...)
		}
	}
}

// WithDefaultQueue sets the default queue name
func WithDefaultQueue(queue string) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if queue != "" {
			o.defaultQueue = queue
		}
	}
}

// WithDefaultMaxRetries sets the retry bound for jobs that do not override it.
func WithDefaultMaxRetries(n int8) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if n >= 0 && n <= maxRetriesCap {
			o.defaultMaxRetries = n
		}
	}
}

// WithEnqueuerClock replaces time.Now when stamping jobs.
func WithEnqueuerClock(now func() time.Time) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEnqueuerLogger sets the logger for the enqueuer
func WithEnqueuerLogger(logger *slog.Logger) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// maxRetriesCap keeps a misconfigured job from retrying forever.
const maxRetriesCap = 10

// EnqueueOption is a functional option for the Enqueue method
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	queue       string
	maxRetries  int8
	delay       time.Duration
	scheduledAt *time.Time
}

// WithQueue sets the queue for the job
func WithQueue(queue string) EnqueueOption {
	return func(o *enqueueOptions) {
		if queue != "" {
			o.queue = queue
		}
	}
}

// WithMaxRetries sets the maximum number of retries (0-10)
func WithMaxRetries(maxRetries int8) EnqueueOption {
	return func(o *enqueueOptions) {
		if maxRetries >= 0 && maxRetries <= maxRetriesCap {
			o.maxRetries = maxRetries
		}
	}
}

// WithDelay sets a delay before the job can be processed
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithScheduledAt sets a specific time for the job to be processed
func WithScheduledAt(scheduledAt time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.scheduledAt = &scheduledAt
	}
}
