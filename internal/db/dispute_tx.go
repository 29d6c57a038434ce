package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/google/uuid"
)

type OpenDisputeTxParams struct {
	OrderID     uuid.UUID
	ReporterID  string
	Reason      DisputeReason
	Description string
}

type OpenDisputeTxResult struct {
	Order   Order   `json:"order"`
	Dispute Dispute `json:"dispute"`
}

// OpenDisputeTx freezes an active order in the disputed state. Only the
// buyer or the seller of the order can report, and only before the order
// settles. The schema allows at most one open dispute per order.
func (store *SQLStore) OpenDisputeTx(ctx context.Context, arg OpenDisputeTxParams) (OpenDisputeTxResult, error) {
	var result OpenDisputeTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if arg.ReporterID != order.BuyerID && arg.ReporterID != order.SellerID {
			return fmt.Errorf("user %s is not a party of order %s", arg.ReporterID, order.OrderNumber)
		}

		if !CanOpenDispute(order.Status) {
			return fmt.Errorf("%w: cannot dispute order in status %s", ErrInvalidTransition, order.Status)
		}

		if err = ValidateTransition(order.Status, OrderStatusDisputed); err != nil {
			return err
		}

		// 2. Create the dispute
		disputeID, _ := uuid.NewV7()
		result.Dispute, err = qTx.CreateDispute(ctx, CreateDisputeParams{
			ID:          disputeID,
			OrderID:     order.ID,
			ReporterID:  arg.ReporterID,
			Reason:      arg.Reason,
			Description: arg.Description,
			Status:      DisputeStatusOpen,
		})
		if err != nil {
			return fmt.Errorf("failed to create dispute: %w", err)
		}

		// 3. Freeze the order
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:     order.ID,
			Status: statusPointer(OrderStatusDisputed),
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}

type ResolveDisputeTxParams struct {
	DisputeID  uuid.UUID
	AdminID    string
	Outcome    DisputeOutcome
	Resolution string
	// PartialRefund is only read for the partial outcome.
	PartialRefund int64
}

type ResolveDisputeTxResult struct {
	Order       Order         `json:"order"`
	Dispute     Dispute       `json:"dispute"`
	RefundEntry *LedgerEntry  `json:"refund_entry,omitempty"`
	Payouts     []LedgerEntry `json:"payouts,omitempty"`
}

// ResolveDisputeTx applies an admin verdict to a disputed order.
// favor_buyer cancels the order and refunds the captured payment in full,
// favor_seller forces delivery and settles as usual, partial forces delivery
// with an admin-chosen refund deducted from the seller payout.
func (store *SQLStore) ResolveDisputeTx(ctx context.Context, arg ResolveDisputeTxParams) (ResolveDisputeTxResult, error) {
	var result ResolveDisputeTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		dispute, err := qTx.GetDisputeByID(ctx, arg.DisputeID)
		if err != nil {
			return fmt.Errorf("failed to get dispute: %w", err)
		}

		if dispute.Status == DisputeStatusResolved || dispute.Status == DisputeStatusClosed {
			return fmt.Errorf("dispute %s is already %s", dispute.ID, dispute.Status)
		}

		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, dispute.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		// 2. Compute the verdict's ledger effects
		plan, err := BuildResolutionPlan(order, entries, arg.Outcome, arg.PartialRefund)
		if err != nil {
			return err
		}

		now := time.Now()

		if plan.RecordCashPayment {
			_, err = qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
				OrderID:     order.ID,
				Type:        LedgerEntryTypePayment,
				PayeeID:     &order.BuyerID,
				Amount:      order.TotalAmount,
				Status:      LedgerEntryStatusCompleted,
				CompletedAt: &now,
			})
			if err != nil {
				return fmt.Errorf("failed to record cash payment: %w", err)
			}
		}

		if plan.RefundAmount > 0 {
			entry, err := qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
				OrderID:     order.ID,
				Type:        LedgerEntryTypeRefund,
				PayeeID:     &order.BuyerID,
				Amount:      plan.RefundAmount,
				Status:      LedgerEntryStatusCompleted,
				CompletedAt: &now,
			})
			if err != nil {
				return fmt.Errorf("failed to create refund entry: %w", err)
			}
			result.RefundEntry = &entry
		}

		if plan.ReleaseCommission || plan.VoidCommission {
			held := HeldCommission(entries)
			status := LedgerEntryStatusCompleted
			var completedAt *time.Time
			if plan.VoidCommission {
				status = LedgerEntryStatusFailed
			} else {
				completedAt = &now
			}

			_, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
				ID:          held.ID,
				Status:      &status,
				CompletedAt: completedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to settle commission: %w", err)
			}
		}

		for _, payout := range plan.Payouts {
			entry, err := qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
				OrderID: order.ID,
				Type:    LedgerEntryTypePayout,
				PayeeID: util.StringPointer(payout.PayeeID),
				Amount:  payout.Amount,
				Status:  LedgerEntryStatusPending,
			})
			if err != nil {
				return fmt.Errorf("failed to create payout entry: %w", err)
			}
			result.Payouts = append(result.Payouts, entry)
		}

		// 3. Restore stock when the verdict cancels the order, and void a
		// pending payment so a late gateway callback cannot capture it
		if plan.OrderStatus == OrderStatusCancelled {
			if pending := PendingPayment(entries); pending != nil {
				_, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
					ID:     pending.ID,
					Status: entryStatusPointer(LedgerEntryStatusFailed),
				})
				if err != nil {
					return fmt.Errorf("failed to void pending payment: %w", err)
				}
			}

			items, err := qTx.ListOrderItems(ctx, order.ID)
			if err != nil {
				return fmt.Errorf("failed to list order items: %w", err)
			}
			for _, item := range items {
				_, err = qTx.AddProductQuantity(ctx, AddProductQuantityParams{
					ID:     item.ProductID,
					Amount: item.Quantity,
				})
				if err != nil {
					return fmt.Errorf("failed to restore stock: %w", err)
				}
			}
		}

		// 4. Advance the order per the verdict
		updateParams := UpdateOrderParams{
			ID:     order.ID,
			Status: &plan.OrderStatus,
		}
		if plan.OrderStatus == OrderStatusCancelled {
			updateParams.CancelledBy = &arg.AdminID
			updateParams.CancelledReason = util.StringPointer(fmt.Sprintf("dispute resolved: %s", arg.Outcome))
		}
		if plan.RecordCashPayment {
			updateParams.IsPaid = util.BoolPointer(true)
		}

		result.Order, err = qTx.UpdateOrder(ctx, updateParams)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		// 5. Close the dispute
		outcome := arg.Outcome
		result.Dispute, err = qTx.UpdateDispute(ctx, UpdateDisputeParams{
			ID:         dispute.ID,
			Status:     disputeStatusPointer(DisputeStatusResolved),
			Outcome:    &outcome,
			Resolution: &arg.Resolution,
			ResolvedBy: &arg.AdminID,
			ResolvedAt: &now,
		})
		if err != nil {
			return fmt.Errorf("failed to update dispute: %w", err)
		}

		return nil
	})

	return result, err
}

func disputeStatusPointer(s DisputeStatus) *DisputeStatus {
	return &s
}
