package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id          int64           `db:"id"`
	CustomerId  int64           `db:"customer_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	OrderDate   time.Time       `db:"order_date"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:          o.Id,
		CustomerID:  o.CustomerId,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		OrderItems:  []orderitem.OrderItem{}, // Will be populated separately
	}
}

// OrderDalFromModel converts service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	return &OrderDal{
		Id:          o.ID,
		CustomerId:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a single order and returns it with the generated id.
// The total is whatever the caller supplies; order creation writes a zero
// placeholder first and sets the computed total with UpdateTotal.
func (r *PostgresOrderRepository) Insert(
	ctx context.Context,
	o order.Order,
) (*order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("customer_id", "total_amount", "order_date").
		Values(o.CustomerID, o.TotalAmount.String(), o.OrderDate).
		Suffix("RETURNING id, customer_id, total_amount::text, order_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

// UpdateTotal writes the computed total back onto a persisted order.
func (r *PostgresOrderRepository) UpdateTotal(
	ctx context.Context,
	id int64,
	total decimal.Decimal,
) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("total_amount", total.String()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select("id", "customer_id", "total_amount::text", "order_date").
		From("orders")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if filter.PlacedAfter != nil {
		query = query.Where(sq.GtOrEq{"order_date": *filter.PlacedAfter})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		var total string
		err := rows.Scan(&dal.Id, &dal.CustomerId, &total, &dal.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		parsed, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total amount: %w", err)
		}
		dal.TotalAmount = parsed

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the total number of orders.
func (r *PostgresOrderRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("count(*)").From("orders").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// SumTotalAmount returns the revenue across all orders.
func (r *PostgresOrderRepository) SumTotalAmount(ctx context.Context) (decimal.Decimal, error) {
	sql, args, err := r.sb.
		Select("coalesce(sum(total_amount), 0)::text").
		From("orders").
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build query: %w", err)
	}

	var total string
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order totals: %w", err)
	}

	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse revenue: %w", err)
	}

	return parsed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var dal OrderDal
	var total string
	if err := row.Scan(&dal.Id, &dal.CustomerId, &total, &dal.OrderDate); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}
	dal.TotalAmount = parsed

	return dal.ToModel(), nil
}
