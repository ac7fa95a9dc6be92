package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, product_name, category, price_amount, price_currency,
	image_url, description, created_at`

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.ProductName == "" {
		return uuid.Nil, errors.New("product name is empty")
	}
	if product.Category == "" {
		return uuid.Nil, errors.New("category is empty")
	}
	if product.Price.Amount.IsNegative() {
		return uuid.Nil, errors.New("price is negative")
	}

	var productID uuid.UUID

	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (product_name, category, price_amount, price_currency,
			image_url, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		product.ProductName,
		product.Category,
		product.Price.Amount,
		product.Price.Currency.String(),
		product.ImageURL,
		product.Description,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return productID, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	if productID == uuid.Nil {
		return p, errors.New("productID is empty")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scanProduct: %w", domain.ErrNotFound)
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1 = '' OR category = $1)
		 ORDER BY created_at DESC`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return categories, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if product.ID == uuid.Nil {
		return p, errors.New("productID is empty")
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE products SET
			product_name   = $2,
			category       = $3,
			price_amount   = $4,
			price_currency = $5,
			image_url      = $6,
			description    = $7
		 WHERE id = $1
		 RETURNING `+productColumns,
		product.ID,
		product.ProductName,
		product.Category,
		product.Price.Amount,
		product.Price.Currency.String(),
		product.ImageURL,
		product.Description,
	)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scanProduct: %w", domain.ErrNotFound)
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return updated, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return errors.New("productID is empty")
	}

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("delete product: %w", domain.ErrNotFound)
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p             domain.Product
		priceAmount   decimal.Decimal
		priceCurrency string
	)

	err := row.Scan(
		&p.ID, &p.ProductName, &p.Category, &priceAmount, &priceCurrency,
		&p.ImageURL, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Price, err = mapMoney(priceAmount, priceCurrency)
	if err != nil {
		return p, fmt.Errorf("mapMoney: %w", err)
	}

	return p, nil
}
