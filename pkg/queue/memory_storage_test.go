package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/queue"
)

// storageUnderTest is what both storage implementations expose.
type storageUnderTest interface {
	queue.EnqueuerRepository
	queue.WorkerRepository
	GetJob(ctx context.Context, jobID uuid.UUID) (*queue.Job, error)
	DeadLetters(ctx context.Context) ([]queue.DeadLetter, error)
}

func newJob(queueName string, scheduledAt time.Time) *queue.Job {
	return &queue.Job{
		ID:          uuid.New(),
		Queue:       queueName,
		Type:        "welcome",
		Payload:     queue.Payload{"userId": "u1"},
		Status:      queue.JobStatusQueued,
		ScheduledAt: scheduledAt,
		CreatedAt:   scheduledAt,
	}
}

// runStorageSuite exercises the repository contract against s.
// advance must move the storage clock and expire leases accordingly.
func runStorageSuite(t *testing.T, newStorage func(t *testing.T) (storageUnderTest, func() time.Time, func(time.Duration))) {
	ctx := context.Background()
	queues := []string{queue.DefaultQueueName}

	t.Run("claims in fifo order", func(t *testing.T) {
		s, now, _ := newStorage(t)
		first := newJob(queue.DefaultQueueName, now())
		second := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, first))
		require.NoError(t, s.CreateJob(ctx, second))

		got, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, queue.JobStatusProcessing, got.Status)
		assert.EqualValues(t, 1, got.Attempts)
		require.NotNil(t, got.LockedBy)
		assert.NotEqual(t, uuid.Nil, got.Claim())

		got, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		_, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		s, now, _ := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, job))
		assert.ErrorIs(t, s.CreateJob(ctx, job), queue.ErrJobExists)
	})

	t.Run("only requested queues", func(t *testing.T) {
		s, now, _ := newStorage(t)
		require.NoError(t, s.CreateJob(ctx, newJob("images", now())))

		_, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)

		got, err := s.ClaimJob(ctx, uuid.New(), []string{"default", "images"}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "images", got.Queue)
	})

	t.Run("delayed job waits", func(t *testing.T) {
		s, now, advance := newStorage(t)
		require.NoError(t, s.CreateJob(ctx, newJob(queue.DefaultQueueName, now().Add(time.Minute))))

		_, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)

		advance(time.Minute)
		_, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.NoError(t, err)
	})

	t.Run("complete", func(t *testing.T) {
		s, now, _ := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, job))

		assert.ErrorIs(t, s.CompleteJob(ctx, job.ID, uuid.New()), queue.ErrJobNotProcessing)
		assert.ErrorIs(t, s.CompleteJob(ctx, uuid.New(), uuid.New()), queue.ErrJobNotFound)

		claimed, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.ErrorIs(t, s.CompleteJob(ctx, job.ID, uuid.New()), queue.ErrLeaseLost)
		require.NoError(t, s.CompleteJob(ctx, job.ID, claimed.Claim()))

		stored, err := s.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.JobStatusDone, stored.Status)
		assert.Nil(t, stored.LockedUntil)
		assert.Nil(t, stored.ClaimID)
	})

	t.Run("retry requeues with delay", func(t *testing.T) {
		s, now, advance := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, job))

		claimed, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		require.NoError(t, s.RetryJob(ctx, job.ID, claimed.Claim(), "oops", 30*time.Second))

		stored, err := s.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.JobStatusQueued, stored.Status)
		require.NotNil(t, stored.Error)
		assert.Equal(t, "oops", *stored.Error)

		_, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)

		advance(30 * time.Second)
		got, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.EqualValues(t, 2, got.Attempts)
	})

	t.Run("fail then dead letter", func(t *testing.T) {
		s, now, _ := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, job))

		claimed, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.ErrorIs(t, s.MoveToDLQ(ctx, job.ID), queue.ErrJobNotFailed)
		require.NoError(t, s.FailJob(ctx, job.ID, claimed.Claim(), "fatal"))

		stored, err := s.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.JobStatusFailed, stored.Status)

		require.NoError(t, s.MoveToDLQ(ctx, job.ID))
		_, err = s.GetJob(ctx, job.ID)
		assert.ErrorIs(t, err, queue.ErrJobNotFound)

		dl, err := s.DeadLetters(ctx)
		require.NoError(t, err)
		require.Len(t, dl, 1)
		assert.Equal(t, job.ID, dl[0].JobID)
		assert.Equal(t, "fatal", dl[0].Error)
		assert.EqualValues(t, 1, dl[0].Attempts)

		assert.ErrorIs(t, s.MoveToDLQ(ctx, job.ID), queue.ErrJobNotFound)
	})

	t.Run("expired lease is recovered", func(t *testing.T) {
		s, now, advance := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		job.MaxRetries = 1
		require.NoError(t, s.CreateJob(ctx, job))

		_, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)

		_, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)

		advance(time.Minute)
		got, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, job.ID, got.ID)
		assert.EqualValues(t, 2, got.Attempts)
	})

	t.Run("expired lease without retry budget is dead-lettered", func(t *testing.T) {
		s, now, advance := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		require.NoError(t, s.CreateJob(ctx, job))

		_, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)

		advance(time.Minute)
		_, err = s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoJobToClaim)

		_, err = s.GetJob(ctx, job.ID)
		assert.ErrorIs(t, err, queue.ErrJobNotFound)

		dl, err := s.DeadLetters(ctx)
		require.NoError(t, err)
		require.Len(t, dl, 1)
		assert.Equal(t, job.ID, dl[0].JobID)
		assert.EqualValues(t, 1, dl[0].Attempts)
		assert.Contains(t, dl[0].Error, queue.ErrLeaseLost.Error())
	})

	t.Run("stale claim cannot settle a reclaimed job", func(t *testing.T) {
		s, now, advance := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		job.MaxRetries = 1
		require.NoError(t, s.CreateJob(ctx, job))

		stale, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)

		advance(time.Minute)
		current, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		require.Equal(t, job.ID, current.ID)
		require.NotEqual(t, stale.Claim(), current.Claim())

		assert.ErrorIs(t, s.FailJob(ctx, job.ID, stale.Claim(), "timed out"), queue.ErrLeaseLost)
		assert.ErrorIs(t, s.RetryJob(ctx, job.ID, stale.Claim(), "timed out", 0), queue.ErrLeaseLost)
		assert.ErrorIs(t, s.CompleteJob(ctx, job.ID, stale.Claim()), queue.ErrLeaseLost)
		assert.ErrorIs(t, s.MoveToDLQ(ctx, job.ID), queue.ErrJobNotFailed)

		require.NoError(t, s.CompleteJob(ctx, job.ID, current.Claim()))

		stored, err := s.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.JobStatusDone, stored.Status)

		dl, err := s.DeadLetters(ctx)
		require.NoError(t, err)
		assert.Empty(t, dl)
	})

	t.Run("settling after lease expiry is rejected", func(t *testing.T) {
		s, now, advance := newStorage(t)
		job := newJob(queue.DefaultQueueName, now())
		job.MaxRetries = 1
		require.NoError(t, s.CreateJob(ctx, job))

		claimed, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)

		advance(time.Minute)
		assert.ErrorIs(t, s.CompleteJob(ctx, job.ID, claimed.Claim()), queue.ErrLeaseLost)

		got, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, job.ID, got.ID)
	})

	t.Run("one claim per job under contention", func(t *testing.T) {
		s, now, _ := newStorage(t)
		require.NoError(t, s.CreateJob(ctx, newJob(queue.DefaultQueueName, now())))

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			claimed int
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.ClaimJob(ctx, uuid.New(), queues, time.Minute); err == nil {
					mu.Lock()
					claimed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, claimed)
	})
}

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	runStorageSuite(t, func(t *testing.T) (storageUnderTest, func() time.Time, func(time.Duration)) {
		clock := newTestClock()
		return queue.NewMemoryStorage(queue.WithMemoryClock(clock.Now)), clock.Now, clock.Advance
	})

	t.Run("nil job", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, queue.NewMemoryStorage().CreateJob(context.Background(), nil), queue.ErrJobCreate)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := queue.NewMemoryStorage().ClaimJob(ctx, uuid.New(), []string{"default"}, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
