package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/corray333/backend-labs/crm/internal/service/services/customersvc"
	"github.com/corray333/backend-labs/crm/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/crm/internal/service/services/productsvc"
	bulkcreatecustomers "github.com/corray333/backend-labs/crm/internal/transport/http/v1/bulk_create_customers"
	createcustomer "github.com/corray333/backend-labs/crm/internal/transport/http/v1/create_customer"
	createorder "github.com/corray333/backend-labs/crm/internal/transport/http/v1/create_order"
	createproduct "github.com/corray333/backend-labs/crm/internal/transport/http/v1/create_product"
	listcustomers "github.com/corray333/backend-labs/crm/internal/transport/http/v1/list_customers"
	listorders "github.com/corray333/backend-labs/crm/internal/transport/http/v1/list_orders"
	listproducts "github.com/corray333/backend-labs/crm/internal/transport/http/v1/list_products"
	replenishstock "github.com/corray333/backend-labs/crm/internal/transport/http/v1/replenish_stock"
	"github.com/corray333/backend-labs/crm/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/crm/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type customerService interface {
	CreateCustomer(ctx context.Context, in customer.CreateCustomerModel) customersvc.CreateCustomerResponse
	BulkCreateCustomers(ctx context.Context, inputs []customer.CreateCustomerModel) customersvc.BulkCreateCustomersResponse
	GetCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
}

type productService interface {
	CreateProduct(ctx context.Context, in product.CreateProductModel) productsvc.CreateProductResponse
	ReplenishLowStock(ctx context.Context) productsvc.ReplenishLowStockResponse
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

type orderService interface {
	CreateOrder(ctx context.Context, in order.CreateOrderModel) ordersvc.CreateOrderResponse
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type HTTPTransport struct {
	server    *http.Server
	router    *chi.Mux
	customers customerService
	products  productService
	orders    orderService
}

func NewHTTPTransport(
	customers customerService,
	products productService,
	orders orderService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:    server,
		router:    router,
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Post("/customers", h.createCustomer)
		r.Post("/customers/bulk", h.bulkCreateCustomers)
		r.Get("/customers", h.listCustomers)

		r.Post("/products", h.createProduct)
		r.Post("/products/replenish", h.replenishStock)
		r.Get("/products", h.listProducts)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
	})
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		slog.Error("Error writing health response", "error", err)
	}
}

func (h *HTTPTransport) createCustomer(w http.ResponseWriter, r *http.Request) {
	createcustomer.CreateCustomer(w, r, h.customers)
}

func (h *HTTPTransport) bulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	bulkcreatecustomers.BulkCreateCustomers(w, r, h.customers)
}

func (h *HTTPTransport) listCustomers(w http.ResponseWriter, r *http.Request) {
	listcustomers.ListCustomers(w, r, h.customers)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateProduct(w, r, h.products)
}

func (h *HTTPTransport) replenishStock(w http.ResponseWriter, r *http.Request) {
	replenishstock.ReplenishStock(w, r, h.products)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.products)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
