package db

import (
	"context"
)

const createProduct = `
INSERT INTO products (seller_id, name, slug, description, price, quantity, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
`

type CreateProductParams struct {
	SellerID    string
	Name        string
	Slug        string
	Description string
	Price       int64
	Quantity    int64
	Status      ProductStatus
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.SellerID,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Price,
		arg.Quantity,
		arg.Status,
	)
	return scanProduct(row)
}

const getProductByID = `
SELECT id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByID, id))
}

const getProductForUpdate = `
SELECT id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
FROM products
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetProductForUpdate(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductForUpdate, id))
}

const getProductBySlug = `
SELECT id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
FROM products
WHERE slug = $1
`

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductBySlug, slug))
}

const listProducts = `
SELECT id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
FROM products
WHERE status = 'active'
ORDER BY created_at DESC
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const listProductsBySeller = `
SELECT id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
FROM products
WHERE seller_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListProductsBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const addProductQuantity = `
UPDATE products
SET quantity = quantity + $2, updated_at = now()
WHERE id = $1
RETURNING id, seller_id, name, slug, description, price, quantity, status, created_at, updated_at
`

type AddProductQuantityParams struct {
	ID     int64
	Amount int64
}

// AddProductQuantity adjusts stock; pass a negative amount to deduct.
func (q *Queries) AddProductQuantity(ctx context.Context, arg AddProductQuantityParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, addProductQuantity, arg.ID, arg.Amount))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
