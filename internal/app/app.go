package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/dal/rabbitmq"
	customerrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/customer/postgres"
	"github.com/corray333/backend-labs/crm/internal/dal/repositories/events"
	orderrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/outbox/postgres"
	"github.com/corray333/backend-labs/crm/internal/otel"
	"github.com/corray333/backend-labs/crm/internal/service/services/customersvc"
	"github.com/corray333/backend-labs/crm/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/crm/internal/service/services/productsvc"
	httptransport "github.com/corray333/backend-labs/crm/internal/transport/http"
	heartbeatworker "github.com/corray333/backend-labs/crm/internal/worker/heartbeat"
	outboxworker "github.com/corray333/backend-labs/crm/internal/worker/outbox"
	remindersworker "github.com/corray333/backend-labs/crm/internal/worker/reminders"
	replenishworker "github.com/corray333/backend-labs/crm/internal/worker/replenish"
	reportworker "github.com/corray333/backend-labs/crm/internal/worker/report"
)

// App represents the application.
type App struct {
	customerSvc *customersvc.CustomerService
	productSvc  *productsvc.ProductService
	orderSvc    *ordersvc.OrderService

	transport *httptransport.HTTPTransport

	outboxWorker    *outboxworker.Worker
	replenishWorker *replenishworker.Worker
	heartbeatWorker *heartbeatworker.Worker
	reportWorker    *reportworker.Worker
	remindersWorker *remindersworker.Worker

	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	eventSink := events.NewEventRabbitMQRepository(rabbitMqClient, outboxRepository)

	customerSvc := customersvc.MustNewCustomerService(
		customersvc.WithPostgresClient(postgresClient),
		customersvc.WithEventSink(eventSink),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithPostgresClient(postgresClient),
		productsvc.WithEventSink(eventSink),
	)
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithEventSink(eventSink),
	)

	transport := httptransport.NewHTTPTransport(customerSvc, productSvc, orderSvc)
	transport.RegisterRoutes()

	// Read-only repositories for the report worker run outside any
	// transaction, straight on the pool.
	customerRepository := customerrepo.NewPostgresCustomerRepository(postgresClient.Pool())
	orderRepository := orderrepo.NewPostgresOrderRepository(postgresClient.Pool())

	return &App{
		customerSvc:     customerSvc,
		productSvc:      productSvc,
		orderSvc:        orderSvc,
		transport:       transport,
		outboxWorker:    outboxworker.NewWorker(outboxRepository, rabbitMqClient),
		replenishWorker: replenishworker.NewWorker(productSvc),
		heartbeatWorker: heartbeatworker.NewWorker(),
		reportWorker:    reportworker.NewWorker(customerRepository, orderRepository, eventSink),
		remindersWorker: remindersworker.NewWorker(orderSvc, customerSvc),
		postgresClient:  postgresClient,
		rabbitMqClient:  rabbitMqClient,
		otelController:  otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go a.outboxWorker.Start(ctx)
	go a.replenishWorker.Start(ctx)
	go a.heartbeatWorker.Start(ctx)
	go a.reportWorker.Start(ctx)
	go a.remindersWorker.Start(ctx)

	<-stop
	slog.Info("Shutdown signal received")

	a.outboxWorker.Stop()
	a.replenishWorker.Stop()
	a.heartbeatWorker.Stop()
	a.reportWorker.Stop()
	a.remindersWorker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.transport.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
