package ordersvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/dal/uow"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/corray333/backend-labs/crm/internal/service/validation"
	"github.com/shopspring/decimal"
)

// unitOfWork is the transaction scope the service runs its writes in.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CustomerRepository() icustomerrepo.ICustomerRepository
	ProductRepository() iproductrepo.IProductRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
}

// OrderService is a service for order creation and queries.
type OrderService struct {
	newUOW func() unitOfWork
	events ieventrepo.IEventRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// WithEventSink sets the mutation event sink for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventSink(events ieventrepo.IEventRepository) option {
	return func(s *OrderService) {
		s.events = events
	}
}

// CreateOrderResponse is the structured result of CreateOrder.
type CreateOrderResponse struct {
	Order  *order.Order `json:"order"`
	Errors []string     `json:"errors"`
}

// CreateOrder validates the customer and the full product list up front,
// then creates the order and its items in one transaction: the order row is
// written with a zero total, one item per resolved product is inserted with
// quantity 1 and the product's current price, and the accumulated total is
// written back before commit. Any in-transaction failure rolls the whole
// order back; no partial rows survive.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	in order.CreateOrderModel,
) CreateOrderResponse {
	work := s.newUOW()

	products, verrs, err := validation.OrderCreate(
		ctx,
		work.CustomerRepository(),
		work.ProductRepository(),
		in,
	)
	if err != nil {
		return CreateOrderResponse{Errors: []string{err.Error()}}
	}
	if len(verrs) > 0 {
		return CreateOrderResponse{Errors: validation.Messages(verrs)}
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	if err := work.Begin(ctx); err != nil {
		return CreateOrderResponse{Errors: []string{err.Error()}}
	}

	created, err := s.writeOrder(ctx, work, in.CustomerID, orderDate, products)
	if err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Failed to roll back order creation", "error", rbErr)
		}

		return CreateOrderResponse{Errors: []string{err.Error()}}
	}

	if err := work.Commit(ctx); err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Failed to roll back order creation", "error", rbErr)
		}

		return CreateOrderResponse{Errors: []string{err.Error()}}
	}

	s.emit(ctx, event.MutationEvent{
		Operation:  event.OpCreateOrder,
		EntityIDs:  []int64{created.ID},
		Detail:     created.TotalAmount.StringFixed(2),
		OccurredAt: time.Now(),
	})

	return CreateOrderResponse{Order: created}
}

// writeOrder performs the in-transaction write sequence.
func (s *OrderService) writeOrder(
	ctx context.Context,
	work unitOfWork,
	customerID int64,
	orderDate time.Time,
	products []product.Product,
) (*order.Order, error) {
	created, err := work.OrderRepository().Insert(ctx, order.Order{
		CustomerID:  customerID,
		TotalAmount: decimal.Zero,
		OrderDate:   orderDate,
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]orderitem.OrderItem, 0, len(products))
	for _, p := range products {
		item, err := work.OrderItemRepository().Insert(ctx, orderitem.OrderItem{
			OrderID:   created.ID,
			ProductID: p.ID,
			Quantity:  1,
			Price:     p.Price,
		})
		if err != nil {
			return nil, err
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, *item)
	}

	if err := work.OrderRepository().UpdateTotal(ctx, created.ID, total); err != nil {
		return nil, err
	}

	created.TotalAmount = total
	created.OrderItems = items

	return created, nil
}

// GetOrders retrieves orders with their items based on filter criteria.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemQuery.OrderIds = append(itemQuery.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

func (s *OrderService) emit(ctx context.Context, e event.MutationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Error("Failed to publish mutation event", "operation", e.Operation, "error", err)
	}
}
