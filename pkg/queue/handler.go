package queue

import (
	"context"
	"encoding/json"
	"fmt"
)

type (
	// Handler processes every job of one type.
	Handler interface {
		Type() JobType
		Handle(ctx context.Context, payload Payload) error
	}

	HandlerFunc            func(ctx context.Context, payload Payload) error
	TaskHandlerFunc[T any] func(ctx context.Context, payload T) error
)

// NewHandler binds fn to jobType.
func NewHandler(jobType JobType, fn HandlerFunc) Handler {
	return &payloadHandler{jobType: jobType, fn: fn}
}

// NewTaskHandler binds fn to jobType, decoding the payload fields into T
// through its json tags.
func NewTaskHandler[T any](jobType JobType, fn TaskHandlerFunc[T]) Handler {
	return &typedHandler[T]{jobType: jobType, fn: fn}
}

type payloadHandler struct {
	jobType JobType
	fn      HandlerFunc
}

func (h *payloadHandler) Type() JobType {
	return h.jobType
}

func (h *payloadHandler) Handle(ctx context.Context, payload Payload) error {
	return h.fn(ctx, payload)
}

type typedHandler[T any] struct {
	jobType JobType
	fn      TaskHandlerFunc[T]
}

func (h *typedHandler[T]) Type() JobType {
	return h.jobType
}

func (h *typedHandler[T]) Handle(ctx context.Context, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Permanent(fmt.Errorf("failed to encode payload: %w", err))
	}

	var t T
	if err := json.Unmarshal(raw, &t); err != nil {
		return Permanent(fmt.Errorf("failed to decode payload into %T: %w", t, err))
	}
	return h.fn(ctx, t)
}

// JobInfo describes the attempt a handler is running.
type JobInfo struct {
	ID      string
	Type    JobType
	Queue   string
	Attempt int
}

type jobInfoKey struct{}

func withJobInfo(ctx context.Context, job *Job) context.Context {
	return context.WithValue(ctx, jobInfoKey{}, JobInfo{
		ID:      job.ID.String(),
		Type:    job.Type,
		Queue:   job.Queue,
		Attempt: int(job.Attempts),
	})
}

// JobInfoFromContext returns the attempt metadata set by the worker.
func JobInfoFromContext(ctx context.Context) (JobInfo, bool) {
	info, ok := ctx.Value(jobInfoKey{}).(JobInfo)
	return info, ok
}
