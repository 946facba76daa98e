package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Stock     int             `db:"stock"`
	CreatedAt time.Time       `db:"created_at"`
}

// ToModel converts ProductDal to service layer Product model.
func (p *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:        p.Id,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

// ProductDalFromModel converts service layer Product model to ProductDal.
func ProductDalFromModel(p *product.Product) *ProductDal {
	return &ProductDal{
		Id:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresProductRepository) scanProduct(row pgx.Row) (*product.Product, error) {
	var dal ProductDal
	var price string
	if err := row.Scan(&dal.Id, &dal.Name, &price, &dal.Stock, &dal.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	dal.Price = parsed

	return dal.ToModel(), nil
}

// Insert persists a single product and returns it with the generated id.
func (r *PostgresProductRepository) Insert(
	ctx context.Context,
	p product.Product,
) (*product.Product, error) {
	sql, args, err := r.sb.
		Insert("products").
		Columns("name", "price", "stock", "created_at").
		Values(p.Name, p.Price.String(), p.Stock, p.CreatedAt).
		Suffix("RETURNING id, name, price::text, stock, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves a product by id. Returns nil when the product is absent.
func (r *PostgresProductRepository) GetByID(
	ctx context.Context,
	id int64,
) (*product.Product, error) {
	sql, args, err := r.sb.
		Select("id", "name", "price::text", "stock", "created_at").
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := r.scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// Query retrieves products based on filter criteria.
func (r *PostgresProductRepository) Query(
	ctx context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	query := r.sb.
		Select("id", "name", "price::text", "stock", "created_at").
		From("products")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if filter.StockBelow != nil {
		query = query.Where(sq.Lt{"stock": *filter.StockBelow})
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
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		var price string
		err := rows.Scan(&dal.Id, &dal.Name, &price, &dal.Stock, &dal.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		dal.Price = parsed

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStock sets the stock of a product and returns the updated row.
func (r *PostgresProductRepository) UpdateStock(
	ctx context.Context,
	id int64,
	stock int,
) (*product.Product, error) {
	sql, args, err := r.sb.
		Update("products").
		Set("stock", stock).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, price::text, stock, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := r.scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update product stock: %w", err)
	}

	return updated, nil
}
