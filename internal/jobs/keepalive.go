package jobs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketly/internal/config"
	"marketly/pkg/logger"

	"github.com/robfig/cron/v3"
)

// KeepAlive pings a URL on a cron schedule so idle hosts do not spin the service down.
type KeepAlive struct {
	cron      *cron.Cron
	client    *http.Client
	url       string
	schedule  string
	logger    *logger.Logger
	isRunning bool
}

func NewKeepAlive(cfg *config.KeepAliveConfig, log *logger.Logger) *KeepAlive {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KeepAlive{
		cron:     cron.New(),
		client:   &http.Client{Timeout: timeout},
		url:      cfg.URL,
		schedule: cfg.Schedule,
		logger:   log.WithField("job", "keepalive"),
	}
}

// Start schedules the ping. It does nothing when no URL is configured.
func (k *KeepAlive) Start() error {
	if k.url == "" {
		k.logger.Info("Keep-alive disabled, no URL configured")
		return nil
	}

	_, err := k.cron.AddFunc(k.schedule, func() {
		if err := k.RunNow(context.Background()); err != nil {
			k.logger.WithError(err).Warn("Keep-alive ping failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid keep-alive schedule %q: %w", k.schedule, err)
	}

	k.cron.Start()
	k.isRunning = true
	k.logger.WithField("schedule", k.schedule).Info("Keep-alive started")
	return nil
}

// Stop waits for a running ping to finish.
func (k *KeepAlive) Stop() {
	if !k.isRunning {
		return
	}
	<-k.cron.Stop().Done()
	k.isRunning = false
	k.logger.Info("Keep-alive stopped")
}

// RunNow performs one ping.
func (k *KeepAlive) RunNow(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build keep-alive request: %w", err)
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("keep-alive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("keep-alive got status %d", resp.StatusCode)
	}

	k.logger.WithField("status", resp.StatusCode).Debug("Keep-alive ping succeeded")
	return nil
}
