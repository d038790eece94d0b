package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// RedisQueue implements Queue on a Redis list. The list survives process
// restarts, so queued-but-undequeued jobs are preserved; an in-flight job is
// already popped and is lost on crash.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue connects to Redis at url and uses key as the list name.
// An empty key falls back to DefaultKey.
func NewRedisQueue(url, key string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{
		client: redis.NewClient(opts),
		key:    key,
	}, nil
}

// Ping verifies connectivity.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Enqueue pushes a serialized job onto the list tail.
func (q *RedisQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	data, err := Marshal(job)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	return nil
}

// Dequeue pops the list head, blocking up to wait.
func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error) {
	entry, err := q.client.BRPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("brpop: %w", err)
	}
	// BRPOP returns [key, value]
	if len(entry) != 2 {
		return nil, fmt.Errorf("brpop: unexpected reply of %d elements", len(entry))
	}
	return Unmarshal([]byte(entry[1]))
}

// Len returns the list length.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
