package productsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/dal/uow"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/corray333/backend-labs/crm/internal/service/validation"
)

// Replenishment constants: every product with stock below the threshold gets
// topped up by the increment. The predicate is re-evaluated fresh on each
// run, so a product already at or above the threshold is left alone.
const (
	lowStockThreshold = 10
	stockIncrement    = 10
)

// unitOfWork is the transaction scope the service runs its writes in.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ProductRepository() iproductrepo.IProductRepository
}

// ProductService is a service for product mutations and stock replenishment.
type ProductService struct {
	newUOW func() unitOfWork
	events ieventrepo.IEventRepository
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *ProductService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *ProductService) {
		s.newUOW = factory
	}
}

// WithEventSink sets the mutation event sink for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventSink(events ieventrepo.IEventRepository) option {
	return func(s *ProductService) {
		s.events = events
	}
}

// CreateProductResponse is the structured result of CreateProduct.
type CreateProductResponse struct {
	Product *product.Product `json:"product"`
	Errors  []string         `json:"errors"`
}

// ReplenishLowStockResponse is the structured result of ReplenishLowStock.
type ReplenishLowStockResponse struct {
	UpdatedProducts []product.Product `json:"updatedProducts"`
	SuccessMessage  string            `json:"successMessage"`
	Errors          []string          `json:"errors"`
}

// CreateProduct validates and persists a single product. Absent stock
// defaults to zero.
func (s *ProductService) CreateProduct(
	ctx context.Context,
	in product.CreateProductModel,
) CreateProductResponse {
	if verrs := validation.ProductCreate(in); len(verrs) > 0 {
		return CreateProductResponse{Errors: validation.Messages(verrs)}
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}

	work := s.newUOW()
	created, err := work.ProductRepository().Insert(ctx, product.Product{
		Name:      in.Name,
		Price:     in.Price,
		Stock:     stock,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return CreateProductResponse{Errors: []string{err.Error()}}
	}

	s.emit(ctx, event.MutationEvent{
		Operation:  event.OpCreateProduct,
		EntityIDs:  []int64{created.ID},
		Detail:     created.Name,
		OccurredAt: time.Now(),
	})

	return CreateProductResponse{Product: created}
}

// ReplenishLowStock selects every product with stock below the threshold and
// increments its stock, persisting each update individually. Any storage
// fault aborts the run and is reported as a single error string with no
// products in the result.
func (s *ProductService) ReplenishLowStock(ctx context.Context) ReplenishLowStockResponse {
	work := s.newUOW()
	repo := work.ProductRepository()

	threshold := lowStockThreshold
	lowStock, err := repo.Query(ctx, &product.QueryProductsModel{StockBelow: &threshold})
	if err != nil {
		return ReplenishLowStockResponse{
			UpdatedProducts: []product.Product{},
			Errors:          []string{err.Error()},
		}
	}

	updated := make([]product.Product, 0, len(lowStock))
	for _, p := range lowStock {
		u, err := repo.UpdateStock(ctx, p.ID, p.Stock+stockIncrement)
		if err != nil {
			return ReplenishLowStockResponse{
				UpdatedProducts: []product.Product{},
				Errors:          []string{err.Error()},
			}
		}
		updated = append(updated, *u)
	}

	ids := make([]int64, len(updated))
	for i, p := range updated {
		ids[i] = p.ID
	}
	s.emit(ctx, event.MutationEvent{
		Operation:  event.OpReplenishLowStock,
		EntityIDs:  ids,
		Detail:     fmt.Sprintf("replenished %d products", len(updated)),
		OccurredAt: time.Now(),
	})

	return ReplenishLowStockResponse{
		UpdatedProducts: updated,
		SuccessMessage:  fmt.Sprintf("Updated %d low stock products", len(updated)),
	}
}

// GetProducts retrieves products based on filter criteria.
func (s *ProductService) GetProducts(
	ctx context.Context,
	filter product.QueryProductsModel,
) ([]product.Product, error) {
	work := s.newUOW()

	products, err := work.ProductRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}

func (s *ProductService) emit(ctx context.Context, e event.MutationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Error("Failed to publish mutation event", "operation", e.Operation, "error", err)
	}
}
