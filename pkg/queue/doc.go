// Package queue provides a storage-agnostic job queue with typed payload
// schemas, bounded retries and a dead letter queue.
//
// The package is organised around two components:
//
//   - Enqueuer: validates a job against its payload schema and persists it
//   - Worker: claims queued jobs and dispatches them to the Handler
//     registered for the job type
//
// Components talk to storage only through the EnqueuerRepository and
// WorkerRepository interfaces. Two implementations ship with the package:
// MemoryStorage for tests and single-process development, and RedisStorage
// which keeps jobs in Redis lists and guards every claim with a lease key.
//
// # Delivery
//
// Delivery is at-least-once. A job is completed only when its handler returns
// nil. A failed attempt is retried while Attempts <= MaxRetries (MaxRetries
// defaults to 0, so failures are surfaced without resubmission). Errors
// wrapped with Permanent, and ErrMissingField, skip the retry policy. Jobs
// that run out of retries, or whose type has no handler, are moved to the dead
// letter queue.
//
// Every attempt runs under the worker lock timeout. An attempt that exceeds
// it is abandoned and reported with ErrAttemptTimeout. Handlers must be safe
// to re-run since a crash between side effect and completion redelivers the
// job.
//
// # Usage
//
//	storage := queue.NewMemoryStorage()
//
//	enqueuer, _ := queue.NewEnqueuer(storage,
//	    queue.WithJobType("welcome", "userId"),
//	)
//	_, err := enqueuer.Enqueue(ctx, "welcome", queue.Payload{"userId": id})
//
//	worker, _ := queue.NewWorker(storage, queue.WithLockTimeout(time.Minute))
//	_ = worker.RegisterHandler(queue.NewHandler("welcome", sendWelcome))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(worker.Run(ctx))
package queue
