package uow

import (
	"context"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	customerrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/orderitem/postgres"
	productrepo "github.com/corray333/backend-labs/crm/internal/dal/repositories/product/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork binds the entity repositories to one transaction scope.
// Before Begin the repositories run against the pool; after Begin they run
// against the open transaction until Commit or Rollback.
type unitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	customerRepo  icustomerrepo.ICustomerRepository
	productRepo   iproductrepo.IProductRepository
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
}

// NewUnitOfWork creates a unit of work over the Postgres client.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.GenericConn) {
	u.customerRepo = customerrepo.NewPostgresCustomerRepository(conn)
	u.productRepo = productrepo.NewPostgresProductRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
}

func (u *unitOfWork) CustomerRepository() icustomerrepo.ICustomerRepository {
	return u.customerRepo
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

// Begin opens a transaction and rebinds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
