package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// Worker periodically logs a business summary: total customers, total orders
// and the revenue across all orders.
type Worker struct {
	customerRepo icustomerrepo.ICustomerRepository
	orderRepo    iorderrepo.IOrderRepository
	eventSink    ieventrepo.IEventRepository
	interval     time.Duration
	stopCh       chan struct{}
}

// NewWorker creates a new report worker.
func NewWorker(
	customerRepo icustomerrepo.ICustomerRepository,
	orderRepo iorderrepo.IOrderRepository,
	eventSink ieventrepo.IEventRepository,
) *Worker {
	intervalDays := viper.GetInt("workers.report.interval_days")
	if intervalDays == 0 {
		intervalDays = 7
	}

	return &Worker{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		eventSink:    eventSink,
		interval:     time.Duration(intervalDays) * 24 * time.Hour,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the report schedule.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Report worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Report worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Report worker stopped")

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
	var (
		customerCount int64
		orderCount    int64
		revenue       decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	g.Go(func() error {
		var err error
		customerCount, err = w.customerRepo.Count(gctx)

		return err
	})
	g.Go(func() error {
		var err error
		orderCount, err = w.orderRepo.Count(gctx)

		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = w.orderRepo.SumTotalAmount(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Failed to gather report figures", "error", err)

		return
	}

	slog.Info("Weekly report",
		"total_customers", customerCount,
		"total_orders", orderCount,
		"total_revenue", revenue.String(),
	)

	if w.eventSink == nil {
		return
	}

	err := w.eventSink.Publish(ctx, event.MutationEvent{
		Operation: event.OpReport,
		Detail: fmt.Sprintf(
			"customers=%d orders=%d revenue=%s",
			customerCount, orderCount, revenue.String(),
		),
		OccurredAt: time.Now(),
	})
	if err != nil {
		slog.Error("Failed to publish report event", "error", err)
	}
}
