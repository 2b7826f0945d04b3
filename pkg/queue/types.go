package queue

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// DefaultQueueName is the default queue name used when no queue is specified
const DefaultQueueName = "default"

// JobType identifies which handler processes a job
type JobType string

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Payload holds the named fields of a job. Values are identifiers, never entities.
type Payload map[string]string

// Get returns the value of field or an empty string.
func (p Payload) Get(field string) string {
	return p[field]
}

// Clone returns a copy that does not share storage with p.
func (p Payload) Clone() Payload {
	if p == nil {
		return Payload{}
	}
	return maps.Clone(p)
}

// Job represents a job in the queue
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Queue       string     `json:"queue"`
	Type        JobType    `json:"type"`
	Payload     Payload    `json:"payload"`
	Status      JobStatus  `json:"status"`
	Attempts    int8       `json:"attempts"`
	MaxRetries  int8       `json:"max_retries"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LockedBy    *uuid.UUID `json:"locked_by,omitempty"`
	ClaimID     *uuid.UUID `json:"claim_id,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Claim returns the token of the current claim, or uuid.Nil when the job is not claimed.
func (j *Job) Claim() uuid.UUID {
	if j.ClaimID == nil {
		return uuid.Nil
	}
	return *j.ClaimID
}

// Handle identifies an enqueued job to its producer.
type Handle struct {
	ID    uuid.UUID `json:"id"`
	Type  JobType   `json:"type"`
	Queue string    `json:"queue"`
}

// DeadLetter is a job that failed terminally, kept for manual inspection.
type DeadLetter struct {
	ID       uuid.UUID `json:"id"`
	JobID    uuid.UUID `json:"job_id"`
	Queue    string    `json:"queue"`
	Type     JobType   `json:"type"`
	Payload  Payload   `json:"payload"`
	Error    string    `json:"error"`
	Attempts int8      `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

func newDeadLetter(job *Job, now time.Time) DeadLetter {
	dl := DeadLetter{
		ID:       uuid.New(),
		JobID:    job.ID,
		Queue:    job.Queue,
		Type:     job.Type,
		Payload:  job.Payload.Clone(),
		Attempts: job.Attempts,
		FailedAt: now,
	}
	if job.Error != nil {
		dl.Error = *job.Error
	}
	return dl
}
