package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrUnknownJobType is returned when a job type has no registered payload schema
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrMissingField is returned when a payload lacks a field required by its job type
	ErrMissingField = errors.New("missing required payload field")

	// ErrJobCreate is returned when job creation in storage fails
	ErrJobCreate = errors.New("failed to create job in storage")

	// ErrJobExists is returned when a job with the same ID is already stored
	ErrJobExists = errors.New("job already exists")

	// ErrJobNotFound is returned when a job ID is unknown to the storage
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotProcessing is returned when a state transition requires a claimed job
	ErrJobNotProcessing = errors.New("job is not in processing state")

	// ErrJobNotFailed is returned when a job is moved to the DLQ before it was failed
	ErrJobNotFailed = errors.New("job is not in failed state")

	// ErrLeaseLost is returned when a claim expired or was taken over by another claim
	ErrLeaseLost = errors.New("job lease lost")

	// ErrNoJobToClaim is returned by ClaimJob when no queued job is ready
	ErrNoJobToClaim = errors.New("no job to claim")

	// ErrHandlerNil is returned when registering a nil handler
	ErrHandlerNil = errors.New("handler cannot be nil")

	// ErrHandlerNotFound is returned when no handler is registered for a job type
	ErrHandlerNotFound = errors.New("no handler registered for job type")

	// ErrHandlerAlreadyRegistered is returned when a second handler is bound to a job type
	ErrHandlerAlreadyRegistered = errors.New("handler already registered for job type")

	// ErrNoHandlers is returned when worker has no handlers registered
	ErrNoHandlers = errors.New("no job handlers registered")

	// ErrHandlerPanic wraps a recovered handler panic
	ErrHandlerPanic = errors.New("job handler panicked")

	// ErrAttemptTimeout is returned when a handler exceeds the attempt timeout
	ErrAttemptTimeout = errors.New("job attempt timed out")

	// ErrWorkerStarted is returned when Start is called twice
	ErrWorkerStarted = errors.New("worker already started")

	// ErrWorkerNotStarted is returned when Stop is called before Start
	ErrWorkerNotStarted = errors.New("worker not started")

	// ErrStorageUnavailable is returned when the backing store cannot be reached
	ErrStorageUnavailable = errors.New("queue storage unavailable")
)
