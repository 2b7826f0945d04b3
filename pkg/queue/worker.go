package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// WorkerRepository defines the interface for worker operations.
//
// Every transition of a claimed job names the claim it acts for. A claim
// whose lease expired or was taken over is rejected with ErrLeaseLost, so
// an abandoned attempt can never overwrite the outcome of a newer one.
type WorkerRepository interface {
	// ClaimJob atomically claims the next due job, increments its attempt
	// counter and leases it for lockDuration under a fresh Job.ClaimID.
	// Returns ErrNoJobToClaim when nothing is ready.
	ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error)

	// CompleteJob marks a claimed job as done
	CompleteJob(ctx context.Context, jobID, claimID uuid.UUID) error

	// RetryJob records errorMsg and puts a claimed job back in its queue after delay
	RetryJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string, delay time.Duration) error

	// FailJob records errorMsg and marks a claimed job as failed
	FailJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string) error

	// MoveToDLQ moves a failed job to the dead letter queue
	MoveToDLQ(ctx context.Context, jobID uuid.UUID) error
}

// Worker claims jobs and dispatches each to the handler registered for its type
type Worker struct {
	repo     WorkerRepository
	handlers map[JobType]Handler
	queues   []string
	workerID uuid.UUID
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopMu   sync.Mutex // Protects stopping state and WaitGroup operations

	// Configuration
	pullInterval    time.Duration
	lockTimeout     time.Duration
	attemptTimeout  time.Duration
	shutdownTimeout time.Duration
	retryBackoff    time.Duration
	logger          *slog.Logger

	// State management
	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewWorker creates a new job worker
func NewWorker(repo WorkerRepository, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &workerOptions{
		queues:            []string{DefaultQueueName},
		pullInterval:      time.Second,
		lockTimeout:       5 * time.Minute,
		shutdownTimeout:   30 * time.Second,
		retryBackoff:      30 * time.Second,
		maxConcurrentJobs: 1,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	// The attempt must give up while its lease is still held.
	if options.attemptTimeout <= 0 || options.attemptTimeout >= options.lockTimeout {
		options.attemptTimeout = options.lockTimeout - options.lockTimeout/10
	}

	return &Worker{
		repo:            repo,
		handlers:        make(map[JobType]Handler),
		queues:          options.queues,
		workerID:        uuid.New(),
		sem:             make(chan struct{}, options.maxConcurrentJobs),
		pullInterval:    options.pullInterval,
		lockTimeout:     options.lockTimeout,
		attemptTimeout:  options.attemptTimeout,
		shutdownTimeout: options.shutdownTimeout,
		retryBackoff:    options.retryBackoff,
		logger:          options.logger,
	}, nil
}

// RegisterHandler binds handler to its job type. Only one handler per type is allowed.
func (w *Worker) RegisterHandler(handler Handler) error {
	if handler == nil {
		return ErrHandlerNil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.handlers[handler.Type()]; exists {
		return fmt.Errorf("%w: %q", ErrHandlerAlreadyRegistered, handler.Type())
	}
	w.handlers[handler.Type()] = handler
	return nil
}

// RegisterHandlers registers multiple job handlers
func (w *Worker) RegisterHandlers(handlers ...Handler) error {
	for _, h := range handlers {
		if err := w.RegisterHandler(h); err != nil {
			return err
		}
	}
	return nil
}

// Start begins processing jobs in the background
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return ErrWorkerStarted
	}

	if len(w.handlers) == 0 {
		w.mu.Unlock()
		return ErrNoHandlers
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.logger.Info("worker started",
		logger.WorkerID(w.workerID),
		slog.Any("queues", w.queues),
		slog.Int("max_concurrent", cap(w.sem)))

	return nil
}

// Stop cancels polling and waits up to the shutdown timeout for in-flight attempts
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return ErrWorkerNotStarted
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()

	w.logger.Info("worker stopping, waiting for active jobs to complete",
		logger.WorkerID(w.workerID))

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("worker stopped", logger.WorkerID(w.workerID))
	case <-time.After(w.shutdownTimeout):
		w.logger.Warn("worker stop timed out, abandoning active jobs",
			logger.WorkerID(w.workerID),
			logger.Duration(w.shutdownTimeout))
	}

	return nil
}

// Run starts the worker and returns a function suitable for errgroup
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// ProcessNext claims and runs at most one job. It reports whether a job was
// claimed. The error is non-nil only when the queue itself misbehaved or the
// job type has no handler; handler failures are recorded on the job.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.repo.ClaimJob(ctx, w.workerID, w.queues, w.lockTimeout)
	if err != nil {
		if errors.Is(err, ErrNoJobToClaim) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim job: %w", err)
	}

	if job == nil {
		return false, nil
	}

	w.logger.DebugContext(ctx, "claimed job",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type),
		logger.Queue(job.Queue),
		logger.Attempt(int(job.Attempts)))

	return true, w.processJob(ctx, job)
}

// run is the main polling loop
func (w *Worker) run() {
	ticker := time.NewTicker(w.pullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.sem <- struct{}{}:
				// Don't add to the WaitGroup once Stop has started.
				w.stopMu.Lock()
				if w.stopping.Load() {
					w.stopMu.Unlock()
					<-w.sem
					return
				}
				w.wg.Add(1)
				w.stopMu.Unlock()

				go func() {
					defer w.wg.Done()
					defer func() { <-w.sem }()
					w.drain()
				}()
			default:
				w.logger.Debug("all worker slots busy, skipping tick",
					logger.WorkerID(w.workerID))
			}
		}
	}
}

// drain processes jobs until the queues are empty or the worker stops.
func (w *Worker) drain() {
	for w.ctx.Err() == nil {
		processed, err := w.ProcessNext(w.ctx)
		if err != nil && !errors.Is(err, ErrHandlerNotFound) {
			w.logger.Error("failed to process job",
				logger.WorkerID(w.workerID),
				logger.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}

func (w *Worker) processJob(ctx context.Context, job *Job) error {
	start := time.Now()

	// State transitions must land even if the worker is stopping.
	reportCtx := context.WithoutCancel(ctx)

	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		return w.handleMissingHandler(reportCtx, job)
	}

	err := w.attempt(ctx, handler, job)
	duration := time.Since(start)

	if err != nil {
		return w.handleJobFailure(reportCtx, job, err, duration)
	}

	return w.handleJobSuccess(reportCtx, job, duration)
}

// attempt runs the handler under the attempt timeout, which ends before the
// claim lease does. A handler that outlives it is abandoned and the attempt
// is reported as failed while the claim is still valid.
func (w *Worker) attempt(ctx context.Context, handler Handler, job *Job) error {
	ctx, cancel := context.WithTimeout(withJobInfo(context.WithoutCancel(ctx), job), w.attemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("handler panicked",
					logger.WorkerID(w.workerID),
					logger.JobID(job.ID),
					logger.JobType(job.Type),
					slog.Any("panic", r))
				done <- fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
		}()
		done <- handler.Handle(ctx, job.Payload.Clone())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w after %s", ErrAttemptTimeout, w.attemptTimeout)
	}
}

// handleMissingHandler fails the job and moves it straight to the DLQ.
// Retrying cannot help until a handler is deployed.
func (w *Worker) handleMissingHandler(ctx context.Context, job *Job) error {
	w.logger.ErrorContext(ctx, "no handler registered for job type",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type))

	errorMsg := fmt.Sprintf("%s: %s", ErrHandlerNotFound, job.Type)
	if err := w.repo.FailJob(ctx, job.ID, job.Claim(), errorMsg); err != nil {
		if w.leaseLost(ctx, job, err) {
			return nil
		}
		return fmt.Errorf("failed to mark job %s as failed: %w", job.ID, err)
	}

	if err := w.repo.MoveToDLQ(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to move job %s to DLQ: %w", job.ID, err)
	}

	return fmt.Errorf("%w: %q", ErrHandlerNotFound, job.Type)
}

// handleJobFailure retries the job while it has budget left and the error is
// not permanent. Otherwise the job is failed and moved to the DLQ.
func (w *Worker) handleJobFailure(ctx context.Context, job *Job, execErr error, duration time.Duration) error {
	retry := !IsPermanent(execErr) && job.Attempts <= job.MaxRetries

	w.logger.ErrorContext(ctx, "job failed",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type),
		logger.Attempt(int(job.Attempts)),
		slog.Int("max_retries", int(job.MaxRetries)),
		slog.Bool("retry", retry),
		logger.Duration(duration),
		logger.Error(execErr))

	if retry {
		delay := time.Duration(job.Attempts) * w.retryBackoff
		if err := w.repo.RetryJob(ctx, job.ID, job.Claim(), execErr.Error(), delay); err != nil {
			if w.leaseLost(ctx, job, err) {
				return nil
			}
			return fmt.Errorf("failed to schedule retry for job %s: %w", job.ID, err)
		}
		return nil
	}

	if err := w.repo.FailJob(ctx, job.ID, job.Claim(), execErr.Error()); err != nil {
		if w.leaseLost(ctx, job, err) {
			return nil
		}
		return fmt.Errorf("failed to update job %s status to failed: %w", job.ID, err)
	}

	if err := w.repo.MoveToDLQ(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to move job %s to DLQ: %w", job.ID, err)
	}

	w.logger.WarnContext(ctx, "job moved to dead letter queue",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type))

	return nil
}

func (w *Worker) handleJobSuccess(ctx context.Context, job *Job, duration time.Duration) error {
	if err := w.repo.CompleteJob(ctx, job.ID, job.Claim()); err != nil {
		if w.leaseLost(ctx, job, err) {
			return nil
		}
		return fmt.Errorf("failed to mark job %s as done: %w", job.ID, err)
	}

	w.logger.InfoContext(ctx, "job completed",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type),
		logger.Queue(job.Queue),
		logger.Attempt(int(job.Attempts)),
		logger.Duration(duration))

	return nil
}

// leaseLost reports whether err means the claim on job is gone. The outcome
// of this attempt is then dropped; the job belongs to whoever holds it now.
func (w *Worker) leaseLost(ctx context.Context, job *Job, err error) bool {
	if !errors.Is(err, ErrLeaseLost) && !errors.Is(err, ErrJobNotProcessing) && !errors.Is(err, ErrJobNotFound) {
		return false
	}
	w.logger.WarnContext(ctx, "job lease lost, discarding attempt result",
		logger.WorkerID(w.workerID),
		logger.JobID(job.ID),
		logger.JobType(job.Type),
		logger.Attempt(int(job.Attempts)),
		logger.Error(err))
	return true
}
