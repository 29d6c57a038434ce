package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides all functions to execute db queries and transactions.
type Store interface {
	Querier

	CreateOrderTx(ctx context.Context, arg CreateOrderTxParams) (CreateOrderTxResult, error)
	ConfirmOrderTx(ctx context.Context, arg ConfirmOrderTxParams) (ConfirmOrderTxResult, error)
	CancelOrderTx(ctx context.Context, arg CancelOrderTxParams) (CancelOrderTxResult, error)
	PickupOrderTx(ctx context.Context, arg PickupOrderTxParams) (Order, error)
	DepartOrderTx(ctx context.Context, arg DepartOrderTxParams) (DepartOrderTxResult, error)
	DeliverOrderTx(ctx context.Context, arg DeliverOrderTxParams) (DeliverOrderTxResult, error)
	OpenDisputeTx(ctx context.Context, arg OpenDisputeTxParams) (OpenDisputeTxResult, error)
	ResolveDisputeTx(ctx context.Context, arg ResolveDisputeTxParams) (ResolveDisputeTxResult, error)
	CreateReturnTx(ctx context.Context, arg CreateReturnTxParams) (Return, error)
	AdvanceReturnTx(ctx context.Context, arg AdvanceReturnTxParams) (Return, error)
	RefundReturnTx(ctx context.Context, arg RefundReturnTxParams) (RefundReturnTxResult, error)
	StartCardPaymentTx(ctx context.Context, arg StartCardPaymentTxParams) (LedgerEntry, error)
	SettlePaymentTx(ctx context.Context, arg SettlePaymentTxParams) (SettlePaymentTxResult, error)
	GetDashboardStats(ctx context.Context) (DashboardStats, error)

	Ping(ctx context.Context) error
}

type SQLStore struct {
	*Queries
	connPool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) Store {
	return &SQLStore{
		Queries:  New(db),
		connPool: db,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}

// ExecTx executes a function within a database transaction. All mutations
// for a single order run inside one transaction and lock the order row
// first, which serializes writers per order.
func (store *SQLStore) ExecTx(ctx context.Context, fn func(qTx *Queries) error) error {
	tx, err := store.connPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(store.Queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// GetDashboardStats recomputes the admin dashboard aggregates from the
// current orders and ledger snapshot.
func (store *SQLStore) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	orders, err := store.ListAllOrders(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to list orders: %w", err)
	}

	entries, err := store.ListAllLedgerEntries(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return ComputeDashboardStats(orders, entries), nil
}
