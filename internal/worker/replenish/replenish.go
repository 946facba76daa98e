package replenish

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/services/productsvc"
	"github.com/spf13/viper"
)

// service is an interface for the service layer.
type service interface {
	ReplenishLowStock(ctx context.Context) productsvc.ReplenishLowStockResponse
}

// Worker periodically tops up products whose stock fell below the threshold.
type Worker struct {
	products service
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new replenish worker.
func NewWorker(products service) *Worker {
	intervalHours := viper.GetInt("workers.replenish.interval_hours")
	if intervalHours == 0 {
		intervalHours = 12
	}

	return &Worker{
		products: products,
		interval: time.Duration(intervalHours) * time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the replenish schedule.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Replenish worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Replenish worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Replenish worker stopped")

			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) run(ctx context.Context) {
	resp := w.products.ReplenishLowStock(ctx)
	if len(resp.Errors) > 0 {
		slog.Error("Replenish run failed", "errors", resp.Errors)

		return
	}

	for _, p := range resp.UpdatedProducts {
		slog.Info("Replenished product", "product", p.Name, "stock", p.Stock)
	}

	slog.Info(resp.SuccessMessage)
}
