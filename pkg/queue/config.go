package queue

import "time"

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the configuration for the job queue
type Config struct {
	Backend            string        `env:"QUEUE_BACKEND" envDefault:"memory"`
	Queues             []string      `env:"QUEUE_NAMES" envDefault:"default" envSeparator:","`
	KeyPrefix          string        `env:"QUEUE_KEY_PREFIX" envDefault:"queue"`
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	AttemptTimeout     time.Duration `env:"QUEUE_ATTEMPT_TIMEOUT"`
	ShutdownTimeout    time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxConcurrentJobs  int           `env:"QUEUE_MAX_CONCURRENT_JOBS" envDefault:"10"`
	MaxRetries         int8          `env:"QUEUE_MAX_RETRIES" envDefault:"0"`
	RetryBackoff       time.Duration `env:"QUEUE_RETRY_BACKOFF" envDefault:"30s"`
	CompletedRetention time.Duration `env:"QUEUE_COMPLETED_RETENTION" envDefault:"24h"`
}

// WorkerOptions translates the config into worker options.
func (c Config) WorkerOptions() []WorkerOption {
	return []WorkerOption{
		WithQueues(c.Queues...),
		WithPullInterval(c.PollInterval),
		WithLockTimeout(c.LockTimeout),
		WithAttemptTimeout(c.AttemptTimeout),
		WithShutdownTimeout(c.ShutdownTimeout),
		WithMaxConcurrentJobs(c.MaxConcurrentJobs),
		WithRetryBackoff(c.RetryBackoff),
	}
}

// EnqueuerOptions translates the config into enqueuer options.
func (c Config) EnqueuerOptions() []EnqueuerOption {
	opts := []EnqueuerOption{WithDefaultMaxRetries(c.MaxRetries)}
	if len(c.Queues) > 0 {
		opts = append(opts, WithDefaultQueue(c.Queues[0]))
	}
	return opts
}
