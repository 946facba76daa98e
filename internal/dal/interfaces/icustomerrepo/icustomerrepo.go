package icustomerrepo

import (
	"context"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
)

// ICustomerRepository is an interface for customer postgres repository.
type ICustomerRepository interface {
	Insert(ctx context.Context, c customer.Customer) (*customer.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
	Query(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error)
	Count(ctx context.Context) (int64, error)
}
