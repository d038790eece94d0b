// Package queue provides the durable per-user job channel and its single
// consuming worker. Jobs are serialized records in a named list: enqueue
// pushes to the tail and returns immediately, the worker blocks on the head
// with a bounded wait. Delivery is at-most-once: a dequeued job is never
// re-enqueued, whatever the outcome of its execution.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// DefaultKey is the name of the job list.
const DefaultKey = "user_queue"

// DefaultWait bounds a single blocking dequeue.
const DefaultWait = 5 * time.Second

var (
	// ErrEmpty is returned when a bounded wait elapses with no job.
	ErrEmpty = errors.New("queue empty")

	// ErrClosed is returned when the queue has been closed.
	ErrClosed = errors.New("queue closed")

	// ErrInvalidJob is returned for jobs with an unknown action.
	ErrInvalidJob = errors.New("invalid job")
)

// Queue is the durable job list.
type Queue interface {
	// Enqueue serializes the job and pushes it onto the tail. Non-blocking
	// for the caller: it returns before the worker has processed anything.
	Enqueue(ctx context.Context, job *domain.Job) error

	// Dequeue pops the head, blocking up to wait. Returns ErrEmpty when the
	// wait elapses without a job.
	Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error)

	// Len returns the number of queued jobs.
	Len(ctx context.Context) (int64, error)

	// Close releases the queue's resources.
	Close() error
}

// Marshal encodes a job for storage. The encoding is lossless for the job
// shape: a round-trip preserves every field.
func Marshal(job *domain.Job) ([]byte, error) {
	if job == nil || !job.Action.Valid() {
		return nil, ErrInvalidJob
	}
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored job record.
func Unmarshal(data []byte) (*domain.Job, error) {
	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	if !job.Action.Valid() {
		return nil, fmt.Errorf("%w: action %q", ErrInvalidJob, job.Action)
	}
	return &job, nil
}

// NewJob creates a job stamped with the current time.
func NewJob(userID string, action domain.JobAction, params map[string]string) *domain.Job {
	if params == nil {
		params = map[string]string{}
	}
	return &domain.Job{
		UserID:     userID,
		Action:     action,
		Params:     params,
		EnqueuedAt: time.Now().UnixMilli(),
	}
}
