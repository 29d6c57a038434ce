package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const disputeColumns = `id, order_id, reporter_id, reason, description, status, outcome, resolution, resolved_by, created_at, resolved_at`

const createDispute = `
INSERT INTO disputes (id, order_id, reporter_id, reason, description, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + disputeColumns

type CreateDisputeParams struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ReporterID  string
	Reason      DisputeReason
	Description string
	Status      DisputeStatus
}

func (q *Queries) CreateDispute(ctx context.Context, arg CreateDisputeParams) (Dispute, error) {
	row := q.db.QueryRow(ctx, createDispute,
		arg.ID,
		arg.OrderID,
		arg.ReporterID,
		arg.Reason,
		arg.Description,
		arg.Status,
	)
	return scanDispute(row)
}

const getDisputeByID = `
SELECT ` + disputeColumns + `
FROM disputes
WHERE id = $1
`

func (q *Queries) GetDisputeByID(ctx context.Context, id uuid.UUID) (Dispute, error) {
	return scanDispute(q.db.QueryRow(ctx, getDisputeByID, id))
}

const getOpenDisputeByOrder = `
SELECT ` + disputeColumns + `
FROM disputes
WHERE order_id = $1 AND status IN ('open', 'in_review')
`

// GetOpenDisputeByOrder returns the single open dispute of an order.
// The schema enforces at most one open dispute per order.
func (q *Queries) GetOpenDisputeByOrder(ctx context.Context, orderID uuid.UUID) (Dispute, error) {
	return scanDispute(q.db.QueryRow(ctx, getOpenDisputeByOrder, orderID))
}

const listDisputes = `
SELECT ` + disputeColumns + `
FROM disputes
ORDER BY created_at DESC
`

func (q *Queries) ListDisputes(ctx context.Context) ([]Dispute, error) {
	rows, err := q.db.Query(ctx, listDisputes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}
	return disputes, rows.Err()
}

const updateDispute = `
UPDATE disputes
SET status = COALESCE($2, status),
    outcome = COALESCE($3, outcome),
    resolution = COALESCE($4, resolution),
    resolved_by = COALESCE($5, resolved_by),
    resolved_at = COALESCE($6, resolved_at)
WHERE id = $1
RETURNING ` + disputeColumns

type UpdateDisputeParams struct {
	ID         uuid.UUID
	Status     *DisputeStatus
	Outcome    *DisputeOutcome
	Resolution *string
	ResolvedBy *string
	ResolvedAt *time.Time
}

func (q *Queries) UpdateDispute(ctx context.Context, arg UpdateDisputeParams) (Dispute, error) {
	row := q.db.QueryRow(ctx, updateDispute,
		arg.ID,
		arg.Status,
		arg.Outcome,
		arg.Resolution,
		arg.ResolvedBy,
		arg.ResolvedAt,
	)
	return scanDispute(row)
}

func scanDispute(row rowScanner) (Dispute, error) {
	var d Dispute
	err := row.Scan(
		&d.ID,
		&d.OrderID,
		&d.ReporterID,
		&d.Reason,
		&d.Description,
		&d.Status,
		&d.Outcome,
		&d.Resolution,
		&d.ResolvedBy,
		&d.CreatedAt,
		&d.ResolvedAt,
	)
	return d, err
}
