package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-service/internal/domain"
)

// ProductFilter captures list parameters.
type ProductFilter struct {
	Name   string
	Limit  int
	Offset int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (productname, quantity, price)
        VALUES ($1, $2, $3)
        RETURNING productid`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Quantity,
		product.Price,
	).Scan(&product.ID)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET productname=$1, quantity=$2, price=$3
        WHERE productid=$4`
	cmd, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Quantity,
		product.Price,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `
        SELECT productid, productname, quantity, price
        FROM products WHERE productid=$1`
	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Quantity,
		&product.Price,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	const query = `
        SELECT productid, productname, quantity, price
        FROM products
        WHERE ($1::text = '' OR productname ILIKE '%' || $1::text || '%')
        ORDER BY productid
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, filter.Name, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Quantity, &product.Price); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Delete removes the product and reports how many rows were affected.
func (r *productRepository) Delete(ctx context.Context, id int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE productid=$1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
