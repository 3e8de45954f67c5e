package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketly/pkg/cache"

	"github.com/google/uuid"
)

// ErrEmpty is returned by Dequeue when no job arrived before the timeout.
var ErrEmpty = errors.New("queue: no job available")

type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Decode unmarshals the payload into dest.
func (j *Job) Decode(dest interface{}) error {
	return json.Unmarshal(j.Payload, dest)
}

// ListStore is the subset of Redis list commands the queue needs.
type ListStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) error
	BRPop(ctx context.Context, timeout time.Duration, key string) (string, error)
}

// RedisQueue is a FIFO job queue on a Redis list: LPUSH to enqueue, BRPOP to consume.
type RedisQueue struct {
	store ListStore
	name  string
	now   func() time.Time
}

func NewRedisQueue(store ListStore, name string) *RedisQueue {
	return &RedisQueue{
		store: store,
		name:  name,
		now:   time.Now,
	}
}

func (q *RedisQueue) Name() string {
	return q.name
}

func (q *RedisQueue) Enqueue(ctx context.Context, jobType string, payload interface{}) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: q.now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.store.LPush(ctx, q.name, data); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return job, nil
}

// Dequeue blocks up to timeout. It returns ErrEmpty when nothing arrived.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	data, err := q.store.BRPop(ctx, timeout, q.name)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}

	return &job, nil
}
