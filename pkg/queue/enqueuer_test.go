package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/queue"
)

// MockEnqueuerRepository is a mock implementation of EnqueuerRepository
type MockEnqueuerRepository struct {
	mock.Mock
}

func (m *MockEnqueuerRepository) CreateJob(ctx context.Context, job *queue.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func newTestEnqueuer(t *testing.T, repo queue.EnqueuerRepository, opts ...queue.EnqueuerOption) *queue.Enqueuer {
	t.Helper()
	opts = append([]queue.EnqueuerOption{
		queue.WithJobType("thumbnail", "fileId", "userId"),
		queue.WithJobType("welcome", "userId"),
	}, opts...)
	e, err := queue.NewEnqueuer(repo, opts...)
	require.NoError(t, err)
	return e
}

func TestEnqueuer_NewEnqueuer(t *testing.T) {
	t.Parallel()

	t.Run("nil repository", func(t *testing.T) {
		t.Parallel()
		e, err := queue.NewEnqueuer(nil)
		assert.ErrorIs(t, err, queue.ErrRepositoryNil)
		assert.Nil(t, e)
	})

	t.Run("schema option", func(t *testing.T) {
		t.Parallel()
		e, err := queue.NewEnqueuer(queue.NewMemoryStorage(), queue.WithSchema(queue.Schema{"welcome": {"userId"}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"userId"}, e.Schema()["welcome"])
	})
}

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores a queued job", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		repo := new(MockEnqueuerRepository)
		repo.On("CreateJob", mock.Anything, mock.MatchedBy(func(job *queue.Job) bool {
			return job.Type == "welcome" &&
				job.Queue == queue.DefaultQueueName &&
				job.Status == queue.JobStatusQueued &&
				job.Payload["userId"] == "u1" &&
				job.Attempts == 0 &&
				job.MaxRetries == 0 &&
				job.ScheduledAt.Equal(now)
		})).Return(nil)

		e := newTestEnqueuer(t, repo, queue.WithEnqueuerClock(func() time.Time { return now }))
		h, err := e.Enqueue(ctx, "welcome", queue.Payload{"userId": "u1"})
		require.NoError(t, err)
		assert.Equal(t, queue.JobType("welcome"), h.Type)
		assert.Equal(t, queue.DefaultQueueName, h.Queue)
		assert.NotEmpty(t, h.ID)
		repo.AssertExpectations(t)
	})

	t.Run("missing field never reaches storage", func(t *testing.T) {
		t.Parallel()
		repo := new(MockEnqueuerRepository)
		e := newTestEnqueuer(t, repo)

		_, err := e.Enqueue(ctx, "thumbnail", queue.Payload{"userId": "u1"})
		assert.ErrorIs(t, err, queue.ErrMissingField)
		repo.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything)
	})

	t.Run("unknown type never reaches storage", func(t *testing.T) {
		t.Parallel()
		repo := new(MockEnqueuerRepository)
		e := newTestEnqueuer(t, repo)

		_, err := e.Enqueue(ctx, "resize", queue.Payload{"fileId": "f"})
		assert.ErrorIs(t, err, queue.ErrUnknownJobType)
		repo.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		repo := new(MockEnqueuerRepository)
		repo.On("CreateJob", mock.Anything, mock.MatchedBy(func(job *queue.Job) bool {
			return job.Queue == "images" &&
				job.MaxRetries == 3 &&
				job.ScheduledAt.Equal(now.Add(time.Minute))
		})).Return(nil)

		e := newTestEnqueuer(t, repo,
			queue.WithEnqueuerClock(func() time.Time { return now }),
			queue.WithDefaultMaxRetries(1),
		)
		_, err := e.Enqueue(ctx, "thumbnail", queue.Payload{"fileId": "f", "userId": "u"},
			queue.WithQueue("images"),
			queue.WithMaxRetries(3),
			queue.WithDelay(time.Minute),
		)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("out of range retries are ignored", func(t *testing.T) {
		t.Parallel()
		repo := new(MockEnqueuerRepository)
		repo.On("CreateJob", mock.Anything, mock.MatchedBy(func(job *queue.Job) bool {
			return job.MaxRetries == 2
		})).Return(nil)

		e := newTestEnqueuer(t, repo, queue.WithDefaultMaxRetries(2))
		_, err := e.Enqueue(ctx, "welcome", queue.Payload{"userId": "u"}, queue.WithMaxRetries(50))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("payload is copied", func(t *testing.T) {
		t.Parallel()
		storage := queue.NewMemoryStorage()
		e := newTestEnqueuer(t, storage)

		p := queue.Payload{"userId": "u1"}
		h, err := e.Enqueue(ctx, "welcome", p)
		require.NoError(t, err)
		p["userId"] = "changed"

		job, err := storage.GetJob(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1", job.Payload["userId"])
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()
		storageErr := errors.New("boom")
		repo := new(MockEnqueuerRepository)
		repo.On("CreateJob", mock.Anything, mock.Anything).Return(storageErr)

		e := newTestEnqueuer(t, repo)
		_, err := e.Enqueue(ctx, "welcome", queue.Payload{"userId": "u"})
		assert.ErrorIs(t, err, storageErr)
	})
}
