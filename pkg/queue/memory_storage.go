package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements both repository interfaces in process memory.
// It is meant for tests and single-process development.
type MemoryStorage struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
	dlq  []DeadLetter

	// order keeps insertion order so equal schedules are claimed FIFO.
	order []uuid.UUID
	now   func() time.Time
}

// MemoryStorageOption configures a MemoryStorage.
type MemoryStorageOption func(*MemoryStorage)

// WithMemoryClock replaces time.Now, letting tests move time forward.
func WithMemoryClock(now func() time.Time) MemoryStorageOption {
	return func(ms *MemoryStorage) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStorage creates a new in-memory storage implementation
func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	ms := &MemoryStorage{
		jobs: make(map[uuid.UUID]*Job),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// CreateJob implements EnqueuerRepository
func (ms *MemoryStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job cannot be nil", ErrJobCreate)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.ID]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}

	ms.jobs[job.ID] = cloneJob(job)
	ms.order = append(ms.order, job.ID)

	return nil
}

// ClaimJob implements WorkerRepository.
// Jobs whose lease ran out are returned to the queue before a candidate is picked.
func (ms *MemoryStorage) ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	ms.expireLocks(now)

	var best *Job
	for _, id := range ms.order {
		job := ms.jobs[id]
		if job.Status != JobStatusQueued || !slices.Contains(queues, job.Queue) {
			continue
		}
		if job.ScheduledAt.After(now) {
			continue
		}
		if best == nil || job.ScheduledAt.Before(best.ScheduledAt) {
			best = job
		}
	}

	if best == nil {
		return nil, ErrNoJobToClaim
	}

	lockUntil := now.Add(lockDuration)
	claimID := uuid.New()
	best.Status = JobStatusProcessing
	best.Attempts++
	best.LockedUntil = &lockUntil
	best.LockedBy = &workerID
	best.ClaimID = &claimID

	return cloneJob(best), nil
}

// CompleteJob implements WorkerRepository
func (ms *MemoryStorage) CompleteJob(ctx context.Context, jobID, claimID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, err := ms.claimed(jobID, claimID)
	if err != nil {
		return err
	}

	now := ms.now()
	job.Status = JobStatusDone
	job.ProcessedAt = &now
	job.Error = nil
	unlock(job)

	return nil
}

// RetryJob implements WorkerRepository
func (ms *MemoryStorage) RetryJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string, delay time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, err := ms.claimed(jobID, claimID)
	if err != nil {
		return err
	}

	job.Status = JobStatusQueued
	job.Error = &errorMsg
	job.ScheduledAt = ms.now().Add(delay)
	unlock(job)

	return nil
}

// FailJob implements WorkerRepository
func (ms *MemoryStorage) FailJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, err := ms.claimed(jobID, claimID)
	if err != nil {
		return err
	}

	now := ms.now()
	job.Status = JobStatusFailed
	job.Error = &errorMsg
	job.ProcessedAt = &now
	unlock(job)

	return nil
}

// MoveToDLQ implements WorkerRepository
func (ms *MemoryStorage) MoveToDLQ(ctx context.Context, jobID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != JobStatusFailed {
		return fmt.Errorf("%w: %s", ErrJobNotFailed, jobID)
	}

	ms.deadLetter(job, ms.now())
	return nil
}

// GetJob returns a copy of the stored job.
func (ms *MemoryStorage) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return cloneJob(job), nil
}

// DeadLetters returns the dead letter queue, oldest first.
func (ms *MemoryStorage) DeadLetters(ctx context.Context) ([]DeadLetter, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return slices.Clone(ms.dlq), nil
}

// claimed returns the job if claimID still holds an unexpired lease on it.
// Must be called with mu held.
func (ms *MemoryStorage) claimed(jobID, claimID uuid.UUID) (*Job, error) {
	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != JobStatusProcessing {
		return nil, fmt.Errorf("%w: %s", ErrJobNotProcessing, jobID)
	}
	if job.Claim() != claimID || job.LockedUntil == nil || !job.LockedUntil.After(ms.now()) {
		return nil, fmt.Errorf("%w: %s", ErrLeaseLost, jobID)
	}
	return job, nil
}

// expireLocks returns jobs held by dead or stalled workers to the queue.
// The attempt counter is kept, so a job that already used its retry budget
// is dead-lettered instead. Must be called with mu held.
func (ms *MemoryStorage) expireLocks(now time.Time) {
	for _, job := range ms.jobs {
		if job.Status != JobStatusProcessing || job.LockedUntil == nil || job.LockedUntil.After(now) {
			continue
		}
		if job.Attempts > job.MaxRetries {
			msg := expiredLeaseError(job)
			job.Status = JobStatusFailed
			job.Error = &msg
			job.ProcessedAt = &now
			unlock(job)
			ms.deadLetter(job, now)
			continue
		}
		job.Status = JobStatusQueued
		unlock(job)
	}
}

// deadLetter must be called with mu held.
func (ms *MemoryStorage) deadLetter(job *Job, now time.Time) {
	ms.dlq = append(ms.dlq, newDeadLetter(job, now))

	delete(ms.jobs, job.ID)
	ms.order = slices.DeleteFunc(ms.order, func(id uuid.UUID) bool {
		return id == job.ID
	})
}

func unlock(job *Job) {
	job.LockedUntil = nil
	job.LockedBy = nil
	job.ClaimID = nil
}

func expiredLeaseError(job *Job) string {
	return fmt.Sprintf("%s: lease expired during attempt %d", ErrLeaseLost, job.Attempts)
}

func cloneJob(job *Job) *Job {
	c := *job
	c.Payload = job.Payload.Clone()
	return &c
}
