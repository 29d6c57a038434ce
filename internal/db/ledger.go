package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const ledgerColumns = `id, order_id, type, payee_id, amount, status, reference, created_at, completed_at`

const createLedgerEntry = `
INSERT INTO ledger_entries (order_id, type, payee_id, amount, status, reference, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + ledgerColumns

type CreateLedgerEntryParams struct {
	OrderID     uuid.UUID
	Type        LedgerEntryType
	PayeeID     *string
	Amount      int64
	Status      LedgerEntryStatus
	Reference   *string
	CompletedAt *time.Time
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, createLedgerEntry,
		arg.OrderID,
		arg.Type,
		arg.PayeeID,
		arg.Amount,
		arg.Status,
		arg.Reference,
		arg.CompletedAt,
	)
	return scanLedgerEntry(row)
}

const getLedgerEntryByID = `
SELECT ` + ledgerColumns + `
FROM ledger_entries
WHERE id = $1
`

func (q *Queries) GetLedgerEntryByID(ctx context.Context, id int64) (LedgerEntry, error) {
	return scanLedgerEntry(q.db.QueryRow(ctx, getLedgerEntryByID, id))
}

const listLedgerEntriesByOrder = `
SELECT ` + ledgerColumns + `
FROM ledger_entries
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListLedgerEntriesByOrder(ctx context.Context, orderID uuid.UUID) ([]LedgerEntry, error) {
	return q.listLedgerEntries(ctx, listLedgerEntriesByOrder, orderID)
}

const listAllLedgerEntries = `
SELECT ` + ledgerColumns + `
FROM ledger_entries
ORDER BY id
`

func (q *Queries) ListAllLedgerEntries(ctx context.Context) ([]LedgerEntry, error) {
	return q.listLedgerEntries(ctx, listAllLedgerEntries)
}

const listPendingPayouts = `
SELECT ` + ledgerColumns + `
FROM ledger_entries
WHERE type = 'payout' AND status = 'pending'
ORDER BY id
`

func (q *Queries) ListPendingPayouts(ctx context.Context) ([]LedgerEntry, error) {
	return q.listLedgerEntries(ctx, listPendingPayouts)
}

func (q *Queries) listLedgerEntries(ctx context.Context, query string, args ...interface{}) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const updateLedgerEntry = `
UPDATE ledger_entries
SET status = COALESCE($2, status),
    reference = COALESCE($3, reference),
    completed_at = COALESCE($4, completed_at)
WHERE id = $1
RETURNING ` + ledgerColumns

type UpdateLedgerEntryParams struct {
	ID          int64
	Status      *LedgerEntryStatus
	Reference   *string
	CompletedAt *time.Time
}

// UpdateLedgerEntry only ever advances an entry's status; historical
// amounts are never mutated, the ledger is append-only.
func (q *Queries) UpdateLedgerEntry(ctx context.Context, arg UpdateLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, updateLedgerEntry,
		arg.ID,
		arg.Status,
		arg.Reference,
		arg.CompletedAt,
	)
	return scanLedgerEntry(row)
}

func scanLedgerEntry(row rowScanner) (LedgerEntry, error) {
	var e LedgerEntry
	err := row.Scan(
		&e.ID,
		&e.OrderID,
		&e.Type,
		&e.PayeeID,
		&e.Amount,
		&e.Status,
		&e.Reference,
		&e.CreatedAt,
		&e.CompletedAt,
	)
	return e, err
}
