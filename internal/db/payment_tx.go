package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/google/uuid"
)

type StartCardPaymentTxParams struct {
	OrderID uuid.UUID
	BuyerID string
	// Reference is the payment reference sent to the gateway; the callback
	// echoes it back.
	Reference string
}

// StartCardPaymentTx records a pending payment entry before redirecting the
// buyer to the gateway. Only one non-failed payment entry may ever exist per
// order, so a second attempt fails with ErrDuplicateLedgerEntry.
func (store *SQLStore) StartCardPaymentTx(ctx context.Context, arg StartCardPaymentTxParams) (LedgerEntry, error) {
	var entry LedgerEntry

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if order.BuyerID != arg.BuyerID {
			return fmt.Errorf("order %s does not belong to buyer %s", order.OrderNumber, arg.BuyerID)
		}

		if order.PaymentMethod != PaymentMethodCard {
			return fmt.Errorf("order %s is not a card order", order.OrderNumber)
		}

		if IsTerminalStatus(order.Status) {
			return fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, order.OrderNumber, order.Status)
		}

		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		if err = ValidatePayment(order, entries, order.TotalAmount); err != nil {
			return err
		}

		// 2. Record the pending payment
		entry, err = qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
			OrderID:   order.ID,
			Type:      LedgerEntryTypePayment,
			PayeeID:   &order.BuyerID,
			Amount:    order.TotalAmount,
			Status:    LedgerEntryStatusPending,
			Reference: &arg.Reference,
		})
		if err != nil {
			return fmt.Errorf("failed to create payment entry: %w", err)
		}

		return nil
	})

	return entry, err
}

type SettlePaymentTxParams struct {
	OrderID   uuid.UUID
	Reference string
	Amount    int64
	Success   bool
}

type SettlePaymentTxResult struct {
	Order        Order       `json:"order"`
	PaymentEntry LedgerEntry `json:"payment_entry"`
}

// SettlePaymentTx applies a verified gateway callback. A successful callback
// captures the pending payment and marks the order paid; a failed one marks
// the entry failed so the buyer can retry. Replayed callbacks for an already
// captured reference return the captured entry unchanged, and callbacks for
// an order that reached a terminal status are refused.
func (store *SQLStore) SettlePaymentTx(ctx context.Context, arg SettlePaymentTxParams) (SettlePaymentTxResult, error) {
	var result SettlePaymentTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		result.Order = order

		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		// 2. Mark the entry failed on a declined callback
		if !arg.Success {
			pending := PendingPayment(entries)
			if pending == nil || pending.Reference == nil || *pending.Reference != arg.Reference {
				return nil
			}
			result.PaymentEntry, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
				ID:     pending.ID,
				Status: entryStatusPointer(LedgerEntryStatusFailed),
			})
			if err != nil {
				return fmt.Errorf("failed to mark payment failed: %w", err)
			}
			return nil
		}

		// 3. Capture the pending payment
		plan, err := PlanPaymentCapture(order, entries, arg.Reference, arg.Amount)
		if err != nil {
			return err
		}

		if plan.Replay {
			for i := range entries {
				if entries[i].ID == plan.EntryID {
					result.PaymentEntry = entries[i]
				}
			}
			return nil
		}

		now := time.Now()
		result.PaymentEntry, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
			ID:          plan.EntryID,
			Status:      entryStatusPointer(LedgerEntryStatusCompleted),
			CompletedAt: &now,
		})
		if err != nil {
			return fmt.Errorf("failed to capture payment: %w", err)
		}

		// 4. Mark the order paid
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:     order.ID,
			IsPaid: util.BoolPointer(true),
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}
