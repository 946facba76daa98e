package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/jackc/pgx/v5"
)

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

// ToModel converts CustomerDal to service layer Customer model.
func (c *CustomerDal) ToModel() *customer.Customer {
	return &customer.Customer{
		ID:        c.Id,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// CustomerDalFromModel converts service layer Customer model to CustomerDal.
func CustomerDalFromModel(c *customer.Customer) *CustomerDal {
	return &CustomerDal{
		Id:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn postgres.GenericConn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a single customer and returns it with the generated id.
func (r *PostgresCustomerRepository) Insert(
	ctx context.Context,
	c customer.Customer,
) (*customer.Customer, error) {
	sql, args, err := r.sb.
		Insert("customers").
		Columns("name", "email", "phone", "created_at").
		Values(c.Name, c.Email, c.Phone, c.CreatedAt).
		Suffix("RETURNING id, name, email, phone, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal CustomerDal
	row := r.conn.QueryRow(ctx, sql, args...)
	if err := row.Scan(&dal.Id, &dal.Name, &dal.Email, &dal.Phone, &dal.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	return dal.ToModel(), nil
}

// ExistsByEmail reports whether a customer with the exact email exists.
func (r *PostgresCustomerRepository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	sql, args, err := r.sb.
		Select("1").
		From("customers").
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var one int
	row := r.conn.QueryRow(ctx, sql, args...)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return true, nil
}

// GetByID retrieves a customer by id. Returns nil when the customer is absent.
func (r *PostgresCustomerRepository) GetByID(
	ctx context.Context,
	id int64,
) (*customer.Customer, error) {
	sql, args, err := r.sb.
		Select("id", "name", "email", "phone", "created_at").
		From("customers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal CustomerDal
	row := r.conn.QueryRow(ctx, sql, args...)
	if err := row.Scan(&dal.Id, &dal.Name, &dal.Email, &dal.Phone, &dal.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves customers based on filter criteria.
func (r *PostgresCustomerRepository) Query(
	ctx context.Context,
	filter *customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	query := r.sb.
		Select("id", "name", "email", "phone", "created_at").
		From("customers")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.Emails) > 0 {
		query = query.Where(sq.Eq{"email": filter.Emails})
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
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []customer.Customer
	for rows.Next() {
		var dal CustomerDal
		err := rows.Scan(&dal.Id, &dal.Name, &dal.Email, &dal.Phone, &dal.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the total number of customers.
func (r *PostgresCustomerRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("count(*)").From("customers").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
