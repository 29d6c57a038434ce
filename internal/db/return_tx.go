package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CreateReturnTxParams struct {
	OrderID     uuid.UUID
	BuyerID     string
	Reason      string
	Description string
}

// CreateReturnTx opens a return request for a delivered order. Returns run
// their own linear flow and never touch the order's status.
func (store *SQLStore) CreateReturnTx(ctx context.Context, arg CreateReturnTxParams) (Return, error) {
	var createdReturn Return

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if order.BuyerID != arg.BuyerID {
			return fmt.Errorf("order %s does not belong to buyer %s", order.OrderNumber, arg.BuyerID)
		}

		if order.Status != OrderStatusDelivered {
			return fmt.Errorf("%w: returns require a delivered order, got %s", ErrInvalidTransition, order.Status)
		}

		// 2. Reject when another return is still in flight
		existing, err := qTx.ListReturnsByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list returns: %w", err)
		}
		for _, r := range existing {
			if r.Status != ReturnStatusRejected && r.Status != ReturnStatusClosed {
				return fmt.Errorf("order %s already has an active return %s", order.OrderNumber, r.ID)
			}
		}

		// 3. Create the return
		returnID, _ := uuid.NewV7()
		createdReturn, err = qTx.CreateReturn(ctx, CreateReturnParams{
			ID:          returnID,
			OrderID:     order.ID,
			BuyerID:     order.BuyerID,
			SellerID:    order.SellerID,
			Reason:      arg.Reason,
			Description: arg.Description,
			Status:      ReturnStatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create return: %w", err)
		}

		return nil
	})

	return createdReturn, err
}

type AdvanceReturnTxParams struct {
	ReturnID uuid.UUID
	ActorID  string
	// NextStatus must follow the linear return flow. The refunded step
	// goes through RefundReturnTx instead, since it writes the ledger.
	NextStatus ReturnStatus
}

// AdvanceReturnTx moves a return one step along its flow: the seller
// approves or rejects, the buyer ships, the seller acknowledges receipt
// and finally closes a refunded return.
func (store *SQLStore) AdvanceReturnTx(ctx context.Context, arg AdvanceReturnTxParams) (Return, error) {
	var updatedReturn Return

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		ret, err := qTx.GetReturnForUpdate(ctx, arg.ReturnID)
		if err != nil {
			return fmt.Errorf("failed to get return: %w", err)
		}

		if arg.ActorID != ret.BuyerID && arg.ActorID != ret.SellerID {
			return fmt.Errorf("user %s is not a party of return %s", arg.ActorID, ret.ID)
		}

		if arg.NextStatus == ReturnStatusRefunded {
			return fmt.Errorf("%w: refunds are recorded separately", ErrInvalidTransition)
		}

		if err = ValidateReturnTransition(ret.Status, arg.NextStatus); err != nil {
			return err
		}

		updatedReturn, err = qTx.UpdateReturn(ctx, UpdateReturnParams{
			ID:     ret.ID,
			Status: returnStatusPointer(arg.NextStatus),
		})
		if err != nil {
			return fmt.Errorf("failed to update return: %w", err)
		}

		return nil
	})

	return updatedReturn, err
}

type RefundReturnTxParams struct {
	ReturnID uuid.UUID
	// Amount is chosen by the seller, capped at the refundable balance of
	// the order's captured payment.
	Amount int64
}

type RefundReturnTxResult struct {
	Return      Return      `json:"return"`
	RefundEntry LedgerEntry `json:"refund_entry"`
}

// RefundReturnTx records the refund of a received return on the order's
// ledger and marks the return refunded. The over-refund guard compares the
// amount against the captured payment minus refunds already recorded.
func (store *SQLStore) RefundReturnTx(ctx context.Context, arg RefundReturnTxParams) (RefundReturnTxResult, error) {
	var result RefundReturnTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		ret, err := qTx.GetReturnForUpdate(ctx, arg.ReturnID)
		if err != nil {
			return fmt.Errorf("failed to get return: %w", err)
		}

		if err = ValidateReturnTransition(ret.Status, ReturnStatusRefunded); err != nil {
			return err
		}

		// 1. Lock the order row, the refund mutates its ledger
		order, err := qTx.GetOrderForUpdate(ctx, ret.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		if err = ValidateRefund(entries, arg.Amount); err != nil {
			return err
		}

		// 2. Append the refund entry
		now := time.Now()
		result.RefundEntry, err = qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
			OrderID:     order.ID,
			Type:        LedgerEntryTypeRefund,
			PayeeID:     &ret.BuyerID,
			Amount:      arg.Amount,
			Status:      LedgerEntryStatusCompleted,
			CompletedAt: &now,
		})
		if err != nil {
			return fmt.Errorf("failed to create refund entry: %w", err)
		}

		// 3. Mark the return refunded
		result.Return, err = qTx.UpdateReturn(ctx, UpdateReturnParams{
			ID:           ret.ID,
			Status:       returnStatusPointer(ReturnStatusRefunded),
			RefundAmount: &arg.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to update return: %w", err)
		}

		return nil
	})

	return result, err
}

func returnStatusPointer(s ReturnStatus) *ReturnStatus {
	return &s
}
