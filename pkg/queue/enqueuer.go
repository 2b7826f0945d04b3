package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// EnqueuerRepository defines the interface for job creation
type EnqueuerRepository interface {
	CreateJob(ctx context.Context, job *Job) error
}

// Enqueuer validates jobs against the payload schema and stores them.
// It never waits for a job to be processed.
type Enqueuer struct {
	repo              EnqueuerRepository
	schema            Schema
	defaultQueue      string
	defaultMaxRetries int8
	now               func() time.Time
	logger            *slog.Logger
}

// NewEnqueuer creates a new Enqueuer
func NewEnqueuer(repo EnqueuerRepository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &enqueuerOptions{
		schema:       Schema{},
		defaultQueue: DefaultQueueName,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Enqueuer{
		repo:              repo,
		schema:            options.schema,
		defaultQueue:      options.defaultQueue,
		defaultMaxRetries: options.defaultMaxRetries,
		now:               options.now,
		logger:            options.logger,
	}, nil
}

// Enqueue validates payload against the schema of jobType and stores a new job.
// Unknown types fail with ErrUnknownJobType and incomplete payloads with
// ErrMissingField; neither reaches storage.
func (e *Enqueuer) Enqueue(ctx context.Context, jobType JobType, payload Payload, opts ...EnqueueOption) (Handle, error) {
	if err := e.schema.Validate(jobType, payload); err != nil {
		return Handle{}, err
	}

	options := &enqueueOptions{
		queue:      e.defaultQueue,
		maxRetries: e.defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(options)
	}

	job := e.buildJob(jobType, payload, options)

	if err := e.repo.CreateJob(ctx, job); err != nil {
		return Handle{}, fmt.Errorf("failed to create job %q in queue %q: %w", job.Type, job.Queue, err)
	}

	e.logger.DebugContext(ctx, "job enqueued",
		logger.JobID(job.ID),
		logger.JobType(job.Type),
		logger.Queue(job.Queue),
	)

	return Handle{ID: job.ID, Type: job.Type, Queue: job.Queue}, nil
}

// Schema returns the payload schema the enqueuer validates against.
func (e *Enqueuer) Schema() Schema {
	return e.schema
}

func (e *Enqueuer) buildJob(jobType JobType, payload Payload, options *enqueueOptions) *Job {
	now := e.now()

	scheduledAt := now
	if options.scheduledAt != nil {
		scheduledAt = *options.scheduledAt
	} else if options.delay > 0 {
		scheduledAt = now.Add(options.delay)
	}

	return &Job{
		ID:          uuid.New(),
		Queue:       options.queue,
		Type:        jobType,
		Payload:     payload.Clone(),
		Status:      JobStatusQueued,
		MaxRetries:  options.maxRetries,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
	}
}
