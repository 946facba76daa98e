package ordersvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerRepo struct {
	customers map[int64]*customer.Customer
}

func (f *fakeCustomerRepo) Insert(_ context.Context, c customer.Customer) (*customer.Customer, error) {
	return &c, nil
}

func (f *fakeCustomerRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) Query(_ context.Context, _ *customer.QueryCustomersModel) ([]customer.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type fakeProductRepo struct {
	products map[int64]*product.Product
	lookups  []int64
}

func (f *fakeProductRepo) Insert(_ context.Context, p product.Product) (*product.Product, error) {
	return &p, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	f.lookups = append(f.lookups, id)
	return f.products[id], nil
}

func (f *fakeProductRepo) Query(_ context.Context, _ *product.QueryProductsModel) ([]product.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) UpdateStock(_ context.Context, _ int64, _ int) (*product.Product, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	nextID    int64
	orders    []order.Order
	totals    map[int64]decimal.Decimal
	insertErr error
	updateErr error
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (*order.Order, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	o.ID = f.nextID
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeOrderRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.totals == nil {
		f.totals = map[int64]decimal.Decimal{}
	}
	f.totals[id] = total
	return nil
}

func (f *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) Count(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeOrderRepo) SumTotalAmount(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeOrderItemRepo struct {
	nextID    int64
	items     []orderitem.OrderItem
	failAfter int // fail the insert once this many items exist; 0 disables
}

func (f *fakeOrderItemRepo) Insert(_ context.Context, item orderitem.OrderItem) (*orderitem.OrderItem, error) {
	if f.failAfter > 0 && len(f.items) >= f.failAfter {
		return nil, errors.New("storage fault on order item")
	}
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeOrderItemRepo) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	var result []orderitem.OrderItem
	for _, item := range f.items {
		for _, id := range filter.OrderIds {
			if item.OrderID == id {
				result = append(result, item)
			}
		}
	}
	return result, nil
}

// fakeUOW discards order and item rows on rollback, mimicking the
// transactional scope.
type fakeUOW struct {
	customers  *fakeCustomerRepo
	products   *fakeProductRepo
	orders     *fakeOrderRepo
	orderItems *fakeOrderItemRepo

	began      bool
	committed  bool
	rolledBack bool
}

func (f *fakeUOW) Begin(_ context.Context) error { f.began = true; return nil }

func (f *fakeUOW) Commit(_ context.Context) error { f.committed = true; return nil }

func (f *fakeUOW) Rollback(_ context.Context) error {
	f.rolledBack = true
	f.orders.orders = nil
	f.orders.totals = nil
	f.orderItems.items = nil
	return nil
}

func (f *fakeUOW) CustomerRepository() icustomerrepo.ICustomerRepository { return f.customers }

func (f *fakeUOW) ProductRepository() iproductrepo.IProductRepository { return f.products }

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository { return f.orders }

func (f *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository { return f.orderItems }

type fakeSink struct {
	events []event.MutationEvent
}

func (f *fakeSink) Publish(_ context.Context, e event.MutationEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newWork() *fakeUOW {
	return &fakeUOW{
		customers: &fakeCustomerRepo{customers: map[int64]*customer.Customer{
			1: {ID: 1, Name: "Alice", Email: "alice@example.com"},
		}},
		products: &fakeProductRepo{products: map[int64]*product.Product{
			10: {ID: 10, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 5},
			11: {ID: 11, Name: "Keyboard", Price: decimal.RequireFromString("99.99"), Stock: 5},
		}},
		orders:     &fakeOrderRepo{},
		orderItems: &fakeOrderItemRepo{},
	}
}

func newService(work *fakeUOW, sink *fakeSink) *OrderService {
	opts := []option{WithUnitOfWorkFactory(func() unitOfWork { return work })}
	if sink != nil {
		opts = append(opts, WithEventSink(sink))
	}
	return MustNewOrderService(opts...)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the total from snapshot prices", func(t *testing.T) {
		work := newWork()
		sink := &fakeSink{}
		resp := newService(work, sink).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{10, 11},
		})

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Order)
		assert.True(t, resp.Order.TotalAmount.Equal(decimal.RequireFromString("1099.98")),
			"expected 1099.98, got %s", resp.Order.TotalAmount)
		require.Len(t, resp.Order.OrderItems, 2)
		assert.True(t, resp.Order.OrderItems[0].Price.Equal(decimal.RequireFromString("999.99")))
		assert.True(t, resp.Order.OrderItems[1].Price.Equal(decimal.RequireFromString("99.99")))
		assert.Equal(t, 1, resp.Order.OrderItems[0].Quantity)
		assert.Equal(t, 1, resp.Order.OrderItems[1].Quantity)
		assert.True(t, work.committed)
		assert.True(t, work.orders.totals[resp.Order.ID].Equal(resp.Order.TotalAmount),
			"computed total must be written back")
		require.Len(t, sink.events, 1)
		assert.Equal(t, event.OpCreateOrder, sink.events[0].Operation)
	})

	t.Run("item failure rolls the whole order back", func(t *testing.T) {
		work := newWork()
		work.orderItems.failAfter = 1
		resp := newService(work, nil).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{10, 11},
		})

		assert.Nil(t, resp.Order)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "storage fault")
		assert.True(t, work.rolledBack)
		assert.False(t, work.committed)
		assert.Empty(t, work.orders.orders, "no order row may survive")
		assert.Empty(t, work.orderItems.items, "no item rows may survive")
	})

	t.Run("missing customer fails before product lookups", func(t *testing.T) {
		work := newWork()
		resp := newService(work, nil).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 999,
			ProductIDs: []int64{10},
		})

		assert.Nil(t, resp.Order)
		assert.Equal(t, []string{"Invalid customer ID"}, resp.Errors)
		assert.Empty(t, work.products.lookups, "product ids must never be evaluated")
		assert.False(t, work.began)
	})

	t.Run("empty product list rejected", func(t *testing.T) {
		work := newWork()
		resp := newService(work, nil).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 1,
		})

		assert.Nil(t, resp.Order)
		assert.Equal(t, []string{"At least one product must be selected"}, resp.Errors)
	})

	t.Run("unknown product id reported fail-fast", func(t *testing.T) {
		work := newWork()
		resp := newService(work, nil).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{10, 404, 405},
		})

		assert.Nil(t, resp.Order)
		assert.Equal(t, []string{"Invalid product ID: 404"}, resp.Errors)
		assert.False(t, work.began, "validation failures must precede any write")
	})

	t.Run("supplied order date is preserved", func(t *testing.T) {
		work := newWork()
		date := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		resp := newService(work, nil).CreateOrder(ctx, order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{10},
			OrderDate:  &date,
		})

		require.Empty(t, resp.Errors)
		assert.True(t, resp.Order.OrderDate.Equal(date))
	})
}

func TestGetOrders(t *testing.T) {
	ctx := context.Background()

	work := newWork()
	svc := newService(work, nil)

	created := svc.CreateOrder(ctx, order.CreateOrderModel{
		CustomerID: 1,
		ProductIDs: []int64{10, 11},
	})
	require.Empty(t, created.Errors)

	orders, err := svc.GetOrders(ctx, order.QueryOrdersModel{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].OrderItems, 2, "orders must be hydrated with their items")
}
