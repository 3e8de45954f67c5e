package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketly/internal/config"
	"marketly/internal/models"
	"marketly/internal/utils"
	"marketly/pkg/logger"
	"marketly/pkg/notify"
	"marketly/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestKeepAlive_RunNow(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	keepAlive := NewKeepAlive(&config.KeepAliveConfig{URL: server.URL, Schedule: "@every 1h"}, logger.NewNop())
	require.NoError(t, keepAlive.RunNow(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestKeepAlive_ReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	keepAlive := NewKeepAlive(&config.KeepAliveConfig{URL: server.URL}, logger.NewNop())
	err := keepAlive.RunNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestKeepAlive_StartWithoutURLIsNoop(t *testing.T) {
	keepAlive := NewKeepAlive(&config.KeepAliveConfig{Schedule: "not a schedule"}, logger.NewNop())
	require.NoError(t, keepAlive.Start())
	assert.False(t, keepAlive.isRunning)
	keepAlive.Stop()
}

func TestKeepAlive_RejectsBadSchedule(t *testing.T) {
	keepAlive := NewKeepAlive(&config.KeepAliveConfig{URL: "http://localhost", Schedule: "every so often"}, logger.NewNop())
	assert.Error(t, keepAlive.Start())
}

func TestKeepAlive_StopIsSafeToRepeat(t *testing.T) {
	keepAlive := NewKeepAlive(&config.KeepAliveConfig{URL: "http://localhost", Schedule: "@every 1h"}, logger.NewNop())
	require.NoError(t, keepAlive.Start())
	assert.True(t, keepAlive.isRunning)

	keepAlive.Stop()
	assert.False(t, keepAlive.isRunning)
	keepAlive.Stop()
}

type fakeSource struct {
	mu   sync.Mutex
	jobs []*queue.Job
	err  error
}

func (f *fakeSource) Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.jobs) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
		return nil, queue.ErrEmpty
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []*notify.Message
	err      error
}

func (r *recordingNotifier) Publish(_ context.Context, message *notify.Message) (*notify.PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.messages = append(r.messages, message)
	return &notify.PublishResult{MessageID: "msg-1", Status: "sent"}, nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func lowStockJob(t *testing.T, alert models.LowStockAlert) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(alert)
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Type: utils.JobInventoryLowStock, Payload: payload}
}

func TestInventoryWorker_HandleLowStock(t *testing.T) {
	notifier := &recordingNotifier{}
	worker := NewInventoryWorker(&fakeSource{}, notifier, time.Second, logger.NewNop())

	productID := primitive.NewObjectID()
	job := lowStockJob(t, models.LowStockAlert{ProductID: productID, SKU: "BRK-001", Name: "Brake pad", Stock: 2, Threshold: 5})

	require.NoError(t, worker.Handle(context.Background(), job))
	require.Len(t, notifier.messages, 1)

	message := notifier.messages[0]
	assert.Equal(t, "Low stock: BRK-001", message.Subject)
	assert.Equal(t, utils.JobInventoryLowStock, message.Type)
	assert.Equal(t, productID.Hex(), message.Attributes["product_id"])
	assert.Equal(t, "2", message.Attributes["stock"])
}

func TestInventoryWorker_HandleErrors(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("sns down")}
	worker := NewInventoryWorker(&fakeSource{}, notifier, time.Second, logger.NewNop())

	err := worker.Handle(context.Background(), lowStockJob(t, models.LowStockAlert{SKU: "X"}))
	assert.ErrorContains(t, err, "sns down")

	bad := &queue.Job{Type: utils.JobInventoryLowStock, Payload: json.RawMessage(`"nope"`)}
	assert.ErrorContains(t, worker.Handle(context.Background(), bad), "invalid low stock payload")

	assert.NoError(t, worker.Handle(context.Background(), &queue.Job{Type: "unknown"}))
}

func TestInventoryWorker_RunStopsOnCancel(t *testing.T) {
	notifier := &recordingNotifier{}
	source := &fakeSource{jobs: []*queue.Job{
		lowStockJob(t, models.LowStockAlert{SKU: "A", Stock: 1}),
		lowStockJob(t, models.LowStockAlert{SKU: "B", Stock: 0}),
	}}
	worker := NewInventoryWorker(source, notifier, 10*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return notifier.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
