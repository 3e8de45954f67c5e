package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"marketly/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryList struct {
	lists map[string][]string
}

func newMemoryList() *memoryList {
	return &memoryList{lists: make(map[string][]string)}
}

func (m *memoryList) LPush(_ context.Context, key string, values ...interface{}) error {
	for _, v := range values {
		var s string
		switch val := v.(type) {
		case []byte:
			s = string(val)
		default:
			s = fmt.Sprint(val)
		}
		m.lists[key] = append([]string{s}, m.lists[key]...)
	}
	return nil
}

func (m *memoryList) BRPop(_ context.Context, _ time.Duration, key string) (string, error) {
	list := m.lists[key]
	if len(list) == 0 {
		return "", cache.ErrCacheMiss
	}
	last := list[len(list)-1]
	m.lists[key] = list[:len(list)-1]
	return last, nil
}

func TestRedisQueue_FIFO(t *testing.T) {
	store := newMemoryList()
	q := NewRedisQueue(store, "queue:inventory")
	q.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	first, err := q.Enqueue(ctx, "inventory.low_stock", map[string]int{"stock": 1})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "inventory.low_stock", map[string]int{"stock": 2})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, first.ID, job.ID)
	assert.Equal(t, "inventory.low_stock", job.Type)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), job.EnqueuedAt)

	var payload map[string]int
	require.NoError(t, job.Decode(&payload))
	assert.Equal(t, 1, payload["stock"])
}

func TestRedisQueue_DequeueEmpty(t *testing.T) {
	q := NewRedisQueue(newMemoryList(), "queue:inventory")

	job, err := q.Dequeue(context.Background(), time.Millisecond)
	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrEmpty)
}
