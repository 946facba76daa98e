package reminders

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/spf13/viper"
)

// orderService is an interface for the order service layer.
type orderService interface {
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

// customerService is an interface for the customer service layer.
type customerService interface {
	GetCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
}

// Worker periodically logs a follow-up reminder for every order placed in
// the last week.
type Worker struct {
	orders    orderService
	customers customerService
	interval  time.Duration
	lookback  time.Duration
	stopCh    chan struct{}
}

// NewWorker creates a new reminders worker.
func NewWorker(orders orderService, customers customerService) *Worker {
	intervalHours := viper.GetInt("workers.reminders.interval_hours")
	if intervalHours == 0 {
		intervalHours = 24
	}

	lookbackDays := viper.GetInt("workers.reminders.lookback_days")
	if lookbackDays == 0 {
		lookbackDays = 7
	}

	return &Worker{
		orders:    orders,
		customers: customers,
		interval:  time.Duration(intervalHours) * time.Hour,
		lookback:  time.Duration(lookbackDays) * 24 * time.Hour,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the reminder schedule.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Reminders worker started", "interval", w.interval, "lookback", w.lookback)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminders worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Reminders worker stopped")

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
	since := time.Now().Add(-w.lookback)

	orders, err := w.orders.GetOrders(ctx, order.QueryOrdersModel{PlacedAfter: &since})
	if err != nil {
		slog.Error("Failed to load recent orders for reminders", "error", err)

		return
	}

	if len(orders) == 0 {
		return
	}

	customerIds := make([]int64, 0, len(orders))
	seen := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.CustomerID]; ok {
			continue
		}
		seen[o.CustomerID] = struct{}{}
		customerIds = append(customerIds, o.CustomerID)
	}

	customers, err := w.customers.GetCustomers(ctx, customer.QueryCustomersModel{Ids: customerIds})
	if err != nil {
		slog.Error("Failed to load customers for reminders", "error", err)

		return
	}

	emailByID := make(map[int64]string, len(customers))
	for _, c := range customers {
		emailByID[c.ID] = c.Email
	}

	for _, o := range orders {
		slog.Info("Order follow-up reminder",
			"order_id", o.ID,
			"customer_email", emailByID[o.CustomerID],
			"order_date", o.OrderDate.Format(time.RFC3339),
		)
	}
}
