package db

import (
	"context"

	"github.com/google/uuid"
)

const returnColumns = `id, order_id, buyer_id, seller_id, reason, description, status, refund_amount, created_at, updated_at`

const createReturn = `
INSERT INTO returns (id, order_id, buyer_id, seller_id, reason, description, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + returnColumns

type CreateReturnParams struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	BuyerID     string
	SellerID    string
	Reason      string
	Description string
	Status      ReturnStatus
}

func (q *Queries) CreateReturn(ctx context.Context, arg CreateReturnParams) (Return, error) {
	row := q.db.QueryRow(ctx, createReturn,
		arg.ID,
		arg.OrderID,
		arg.BuyerID,
		arg.SellerID,
		arg.Reason,
		arg.Description,
		arg.Status,
	)
	return scanReturn(row)
}

const getReturnByID = `
SELECT ` + returnColumns + `
FROM returns
WHERE id = $1
`

func (q *Queries) GetReturnByID(ctx context.Context, id uuid.UUID) (Return, error) {
	return scanReturn(q.db.QueryRow(ctx, getReturnByID, id))
}

const getReturnForUpdate = `
SELECT ` + returnColumns + `
FROM returns
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetReturnForUpdate(ctx context.Context, id uuid.UUID) (Return, error) {
	return scanReturn(q.db.QueryRow(ctx, getReturnForUpdate, id))
}

const listReturnsByOrder = `
SELECT ` + returnColumns + `
FROM returns
WHERE order_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListReturnsByOrder(ctx context.Context, orderID uuid.UUID) ([]Return, error) {
	return q.listReturns(ctx, listReturnsByOrder, orderID)
}

const listReturnsByUser = `
SELECT ` + returnColumns + `
FROM returns
WHERE buyer_id = $1 OR seller_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListReturnsByUser(ctx context.Context, userID string) ([]Return, error) {
	return q.listReturns(ctx, listReturnsByUser, userID)
}

func (q *Queries) listReturns(ctx context.Context, query string, args ...interface{}) ([]Return, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var returns []Return
	for rows.Next() {
		r, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		returns = append(returns, r)
	}
	return returns, rows.Err()
}

const updateReturn = `
UPDATE returns
SET status = COALESCE($2, status),
    refund_amount = COALESCE($3, refund_amount),
    updated_at = now()
WHERE id = $1
RETURNING ` + returnColumns

type UpdateReturnParams struct {
	ID           uuid.UUID
	Status       *ReturnStatus
	RefundAmount *int64
}

func (q *Queries) UpdateReturn(ctx context.Context, arg UpdateReturnParams) (Return, error) {
	row := q.db.QueryRow(ctx, updateReturn,
		arg.ID,
		arg.Status,
		arg.RefundAmount,
	)
	return scanReturn(row)
}

func scanReturn(row rowScanner) (Return, error) {
	var r Return
	err := row.Scan(
		&r.ID,
		&r.OrderID,
		&r.BuyerID,
		&r.SellerID,
		&r.Reason,
		&r.Description,
		&r.Status,
		&r.RefundAmount,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}
