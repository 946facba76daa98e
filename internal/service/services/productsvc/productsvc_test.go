package productsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	nextID    int64
	products  []product.Product
	insertErr error
	updateErr map[int64]error
}

func (f *fakeProductRepo) Insert(_ context.Context, p product.Product) (*product.Product, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	p.ID = f.nextID
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Query(
	_ context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	var result []product.Product
	for _, p := range f.products {
		if filter.StockBelow != nil && p.Stock >= *filter.StockBelow {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeProductRepo) UpdateStock(
	_ context.Context,
	id int64,
	stock int,
) (*product.Product, error) {
	if err := f.updateErr[id]; err != nil {
		return nil, err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Stock = stock
			return &f.products[i], nil
		}
	}
	return nil, errors.New("product not found")
}

type fakeUOW struct {
	repo iproductrepo.IProductRepository
}

func (f *fakeUOW) Begin(_ context.Context) error { return nil }

func (f *fakeUOW) Commit(_ context.Context) error { return nil }

func (f *fakeUOW) Rollback(_ context.Context) error { return nil }

func (f *fakeUOW) ProductRepository() iproductrepo.IProductRepository { return f.repo }

type fakeSink struct {
	events []event.MutationEvent
}

func (f *fakeSink) Publish(_ context.Context, e event.MutationEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newService(repo *fakeProductRepo, sink *fakeSink) *ProductService {
	opts := []option{WithUnitOfWorkFactory(func() unitOfWork { return &fakeUOW{repo: repo} })}
	if sink != nil {
		opts = append(opts, WithEventSink(sink))
	}
	return MustNewProductService(opts...)
}

func intPtr(n int) *int { return &n }

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with explicit stock", func(t *testing.T) {
		repo := &fakeProductRepo{}
		resp := newService(repo, nil).CreateProduct(ctx, product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
			Stock: intPtr(4),
		})

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Product)
		assert.Equal(t, 4, resp.Product.Stock)
		assert.True(t, resp.Product.Price.Equal(decimal.RequireFromString("999.99")))
	})

	t.Run("absent stock defaults to zero", func(t *testing.T) {
		repo := &fakeProductRepo{}
		resp := newService(repo, nil).CreateProduct(ctx, product.CreateProductModel{
			Name:  "Mouse",
			Price: decimal.RequireFromString("19.99"),
		})

		require.Empty(t, resp.Errors)
		assert.Equal(t, 0, resp.Product.Stock)
	})

	t.Run("non-positive price rejected without write", func(t *testing.T) {
		repo := &fakeProductRepo{}
		resp := newService(repo, nil).CreateProduct(ctx, product.CreateProductModel{
			Name:  "Freebie",
			Price: decimal.Zero,
		})

		assert.Nil(t, resp.Product)
		assert.Equal(t, []string{"Price must be positive"}, resp.Errors)
		assert.Empty(t, repo.products)
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		repo := &fakeProductRepo{}
		resp := newService(repo, nil).CreateProduct(ctx, product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("10"),
			Stock: intPtr(-1),
		})

		assert.Nil(t, resp.Product)
		assert.Equal(t, []string{"Stock cannot be negative"}, resp.Errors)
	})

	t.Run("persistence failure surfaces as error string", func(t *testing.T) {
		repo := &fakeProductRepo{insertErr: errors.New("connection reset")}
		resp := newService(repo, nil).CreateProduct(ctx, product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("10"),
		})

		assert.Nil(t, resp.Product)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "connection reset")
	})
}

func TestReplenishLowStock(t *testing.T) {
	ctx := context.Background()

	seed := func() *fakeProductRepo {
		repo := &fakeProductRepo{nextID: 3}
		repo.products = []product.Product{
			{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 3},
			{ID: 2, Name: "Monitor", Price: decimal.RequireFromString("299.99"), Stock: 15},
			{ID: 3, Name: "Mouse", Price: decimal.RequireFromString("19.99"), Stock: 7},
		}
		return repo
	}

	t.Run("updates only products below the threshold", func(t *testing.T) {
		repo := seed()
		sink := &fakeSink{}
		resp := newService(repo, sink).ReplenishLowStock(ctx)

		require.Empty(t, resp.Errors)
		assert.Equal(t, "Updated 2 low stock products", resp.SuccessMessage)
		require.Len(t, resp.UpdatedProducts, 2)
		assert.Equal(t, 13, resp.UpdatedProducts[0].Stock)
		assert.Equal(t, 17, resp.UpdatedProducts[1].Stock)
		assert.Equal(t, 15, repo.products[1].Stock, "in-range product stays untouched")
		require.Len(t, sink.events, 1)
		assert.Equal(t, event.OpReplenishLowStock, sink.events[0].Operation)
	})

	t.Run("second run with no intervening sales updates nothing", func(t *testing.T) {
		repo := seed()
		svc := newService(repo, nil)

		first := svc.ReplenishLowStock(ctx)
		require.Len(t, first.UpdatedProducts, 2)

		second := svc.ReplenishLowStock(ctx)
		assert.Empty(t, second.UpdatedProducts)
		assert.Equal(t, "Updated 0 low stock products", second.SuccessMessage)
	})

	t.Run("storage fault aborts with a single error", func(t *testing.T) {
		repo := seed()
		repo.updateErr = map[int64]error{3: errors.New("deadlock detected")}
		resp := newService(repo, nil).ReplenishLowStock(ctx)

		assert.Empty(t, resp.UpdatedProducts)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "deadlock detected")
	})
}
