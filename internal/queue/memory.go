package queue

import (
	"context"
	"sync"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// MemoryQueue is an in-memory implementation of Queue, used in tests and
// when no Redis is configured. Jobs pass through the same serialization as
// the Redis list so the codec is exercised either way.
type MemoryQueue struct {
	mu     sync.Mutex
	items  chan []byte
	closed bool
}

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		items: make(chan []byte, 1024),
	}
}

// Enqueue pushes a serialized job onto the tail.
func (q *MemoryQueue) Enqueue(_ context.Context, job *domain.Job) error {
	data, err := Marshal(job)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.items <- data:
		return nil
	default:
		return ErrClosed
	}
}

// Dequeue pops the head, blocking up to wait.
func (q *MemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error) {
	select {
	case data, ok := <-q.items:
		if !ok {
			return nil, ErrClosed
		}
		return Unmarshal(data)
	case <-time.After(wait):
		return nil, ErrEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of queued jobs.
func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// Close marks the queue closed for producers.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
