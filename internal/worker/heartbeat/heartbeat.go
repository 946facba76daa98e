package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// Worker periodically reports liveness and probes the service's own health
// endpoint so a wedged HTTP listener shows up in the logs.
type Worker struct {
	interval time.Duration
	client   *http.Client
	stopCh   chan struct{}
}

// NewWorker creates a new heartbeat worker.
func NewWorker() *Worker {
	intervalMinutes := viper.GetInt("workers.heartbeat.interval_minutes")
	if intervalMinutes == 0 {
		intervalMinutes = 5
	}

	return &Worker{
		interval: time.Duration(intervalMinutes) * time.Minute,
		client:   &http.Client{Timeout: 10 * time.Second},
		stopCh:   make(chan struct{}),
	}
}

// Start begins the heartbeat schedule.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Heartbeat worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Heartbeat worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Heartbeat worker stopped")

			return
		case <-ticker.C:
			w.beat(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) beat(ctx context.Context) {
	slog.Info("CRM is alive")

	url := fmt.Sprintf("http://localhost:%s/api/v1/health", viper.GetString("server.http.port"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("Failed to build health probe request", "error", err)

		return
	}

	resp, err := w.client.Do(req)
	if err != nil {
		slog.Error("Health probe failed", "error", err)

		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close health probe response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Health probe returned non-OK status", "status", resp.StatusCode)
	}
}
