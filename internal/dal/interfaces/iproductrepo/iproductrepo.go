package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/crm/internal/service/models/product"
)

// IProductRepository is an interface for product postgres repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (*product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*product.Product, error)
}
