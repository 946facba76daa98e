package iorderrepo

import (
	"context"

	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Count(ctx context.Context) (int64, error)
	SumTotalAmount(ctx context.Context) (decimal.Decimal, error)
}
