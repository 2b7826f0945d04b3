package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/svc/jobs"
)

func TestProcessorsThroughQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture(t)

	storage := queue.NewMemoryStorage()
	enqueuer, err := queue.NewEnqueuer(storage, queue.WithSchema(jobs.Schema()), queue.WithEnqueuerLogger(quietLogger()))
	require.NoError(t, err)

	sender := new(MockEmailSender)
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	worker, err := queue.NewWorker(storage, queue.WithWorkerLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, worker.RegisterHandlers(
		jobs.NewThumbnailProcessor(fx.repo, fx.blobs, jobs.WithThumbnailLogger(quietLogger())),
		jobs.NewWelcomeProcessor(fx.repo, sender, quietLogger()).Handler(),
	))

	_, err = enqueuer.Enqueue(ctx, jobs.TypeThumbnail, queue.Payload{jobs.FieldUserID: fx.owner.ID})
	assert.ErrorIs(t, err, queue.ErrMissingField, "rejected before storage")

	thumb, err := enqueuer.Enqueue(ctx, jobs.TypeThumbnail, jobs.ThumbnailPayload(fx.image.ID, fx.owner.ID))
	require.NoError(t, err)
	welcome, err := enqueuer.Enqueue(ctx, jobs.TypeWelcome, jobs.WelcomePayload(fx.owner.ID))
	require.NoError(t, err)

	for range 2 {
		claimed, err := worker.ProcessNext(ctx)
		require.NoError(t, err)
		require.True(t, claimed)
	}
	claimed, err := worker.ProcessNext(ctx)
	require.NoError(t, err)
	assert.False(t, claimed)

	for _, h := range []queue.Handle{thumb, welcome} {
		job, err := storage.GetJob(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.JobStatusDone, job.Status, h.Type)
	}
	assert.True(t, fx.blobs.Exists(ctx, "img-blob_100"))
	sender.AssertNumberOfCalls(t, "SendEmail", 1)
}
