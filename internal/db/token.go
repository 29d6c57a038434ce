package db

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Consume validates a presented code against the token and marks it used.
// Tokens are strictly single-use: a second matching scan fails with
// ErrTokenAlreadyConsumed, a wrong code with ErrTokenMismatch. The caller
// persists the mutation only when nil is returned.
func (t *OrderToken) Consume(code string, now time.Time) error {
	if subtle.ConstantTimeCompare([]byte(t.Code), []byte(code)) != 1 {
		return fmt.Errorf("%w: %s token for order %s", ErrTokenMismatch, t.Kind, t.OrderID)
	}

	if t.ConsumedAt != nil {
		return fmt.Errorf("%w: %s token for order %s", ErrTokenAlreadyConsumed, t.Kind, t.OrderID)
	}

	t.ConsumedAt = &now
	return nil
}

const tokenColumns = `id, order_id, kind, code, issued_at, consumed_at`

const createOrderToken = `
INSERT INTO order_tokens (order_id, kind, code)
VALUES ($1, $2, $3)
RETURNING ` + tokenColumns

type CreateOrderTokenParams struct {
	OrderID uuid.UUID
	Kind    OrderTokenKind
	Code    string
}

func (q *Queries) CreateOrderToken(ctx context.Context, arg CreateOrderTokenParams) (OrderToken, error) {
	row := q.db.QueryRow(ctx, createOrderToken,
		arg.OrderID,
		arg.Kind,
		arg.Code,
	)
	return scanOrderToken(row)
}

const getOrderTokenForUpdate = `
SELECT ` + tokenColumns + `
FROM order_tokens
WHERE order_id = $1 AND kind = $2
ORDER BY issued_at DESC
LIMIT 1
FOR UPDATE
`

type GetOrderTokenForUpdateParams struct {
	OrderID uuid.UUID
	Kind    OrderTokenKind
}

func (q *Queries) GetOrderTokenForUpdate(ctx context.Context, arg GetOrderTokenForUpdateParams) (OrderToken, error) {
	return scanOrderToken(q.db.QueryRow(ctx, getOrderTokenForUpdate, arg.OrderID, arg.Kind))
}

const markOrderTokenConsumed = `
UPDATE order_tokens
SET consumed_at = now()
WHERE id = $1
RETURNING ` + tokenColumns

func (q *Queries) MarkOrderTokenConsumed(ctx context.Context, id int64) (OrderToken, error) {
	return scanOrderToken(q.db.QueryRow(ctx, markOrderTokenConsumed, id))
}

func scanOrderToken(row rowScanner) (OrderToken, error) {
	var t OrderToken
	err := row.Scan(
		&t.ID,
		&t.OrderID,
		&t.Kind,
		&t.Code,
		&t.IssuedAt,
		&t.ConsumedAt,
	)
	return t, err
}
