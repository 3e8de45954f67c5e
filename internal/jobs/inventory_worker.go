package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"marketly/internal/models"
	"marketly/internal/utils"
	"marketly/pkg/logger"
	"marketly/pkg/notify"
	"marketly/pkg/queue"
)

// JobSource is the consuming side of the job queue.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
}

// InventoryWorker consumes inventory jobs and turns low stock events into alerts.
type InventoryWorker struct {
	source      JobSource
	notifier    notify.Notifier
	pollTimeout time.Duration
	backoff     time.Duration
	logger      *logger.Logger
}

func NewInventoryWorker(source JobSource, notifier notify.Notifier, pollTimeout time.Duration, log *logger.Logger) *InventoryWorker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &InventoryWorker{
		source:      source,
		notifier:    notifier,
		pollTimeout: pollTimeout,
		backoff:     time.Second,
		logger:      log.WithField("worker", "inventory"),
	}
}

// Run consumes jobs until ctx is cancelled. A failing job is logged and dropped.
func (w *InventoryWorker) Run(ctx context.Context) {
	w.logger.Info("Inventory worker started")
	defer w.logger.Info("Inventory worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.source.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.WithError(err).Warn("Failed to dequeue job")
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		if err := w.Handle(ctx, job); err != nil {
			w.logger.WithError(err).WithFields(map[string]interface{}{
				"job_id":   job.ID,
				"job_type": job.Type,
			}).Error("Job failed")
		}
	}
}

// Handle processes one job.
func (w *InventoryWorker) Handle(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case utils.JobInventoryLowStock:
		var alert models.LowStockAlert
		if err := job.Decode(&alert); err != nil {
			return fmt.Errorf("invalid low stock payload: %w", err)
		}
		return w.notifyLowStock(ctx, &alert)
	default:
		w.logger.WithField("job_type", job.Type).Warn("Skipping unknown job type")
		return nil
	}
}

func (w *InventoryWorker) notifyLowStock(ctx context.Context, alert *models.LowStockAlert) error {
	message := &notify.Message{
		Subject: fmt.Sprintf("Low stock: %s", alert.SKU),
		Body: fmt.Sprintf("%s (%s) has %d units left, threshold is %d.",
			alert.Name, alert.SKU, alert.Stock, alert.Threshold),
		Type: utils.JobInventoryLowStock,
		Attributes: map[string]string{
			"product_id": alert.ProductID.Hex(),
			"sku":        alert.SKU,
			"stock":      strconv.Itoa(alert.Stock),
		},
	}

	result, err := w.notifier.Publish(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to publish low stock alert: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"product_id": alert.ProductID.Hex(),
		"stock":      alert.Stock,
		"message_id": result.MessageID,
	}).Info("Low stock alert published")
	return nil
}
