package db

import (
	"fmt"
)

// PlatformCommissionPercent is the platform's cut of the items subtotal.
// It is computed once at order creation and immutable afterwards; the
// courier fee is never commissioned.
const PlatformCommissionPercent = 5

// CommissionAmount returns the platform commission for an items subtotal.
func CommissionAmount(itemsSubtotal int64) int64 {
	return itemsSubtotal * PlatformCommissionPercent / 100
}

// SellerNetAmount is what the seller receives once the order settles:
// totalAmount minus courier fee minus platform commission.
func (o Order) SellerNetAmount() int64 {
	return o.TotalAmount - o.CourierFee - o.PlatformCommission
}

// CapturedPayment returns the completed payment entry for an order, or nil.
func CapturedPayment(entries []LedgerEntry) *LedgerEntry {
	for i := range entries {
		if entries[i].Type == LedgerEntryTypePayment && entries[i].Status == LedgerEntryStatusCompleted {
			return &entries[i]
		}
	}
	return nil
}

// PendingPayment returns the pending (not yet captured) payment entry, or nil.
func PendingPayment(entries []LedgerEntry) *LedgerEntry {
	for i := range entries {
		if entries[i].Type == LedgerEntryTypePayment && entries[i].Status == LedgerEntryStatusPending {
			return &entries[i]
		}
	}
	return nil
}

// HeldCommission returns the held commission entry for an order, or nil.
func HeldCommission(entries []LedgerEntry) *LedgerEntry {
	for i := range entries {
		if entries[i].Type == LedgerEntryTypeCommission && entries[i].Status == LedgerEntryStatusHeld {
			return &entries[i]
		}
	}
	return nil
}

// RefundedAmount sums every refund entry that has not failed. Pending
// refunds count so that concurrent refunds cannot overshoot the payment.
func RefundedAmount(entries []LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.Type == LedgerEntryTypeRefund && e.Status != LedgerEntryStatusFailed {
			total += e.Amount
		}
	}
	return total
}

// ValidatePayment guards recordPayment: the amount must equal the order
// total and only one payment entry may ever exist per order.
func ValidatePayment(order Order, entries []LedgerEntry, amount int64) error {
	for _, e := range entries {
		if e.Type == LedgerEntryTypePayment && e.Status != LedgerEntryStatusFailed {
			return fmt.Errorf("%w: payment already recorded for order %s", ErrDuplicateLedgerEntry, order.OrderNumber)
		}
	}

	if amount != order.TotalAmount {
		return fmt.Errorf("%w: amount %d does not match order total %d", ErrPaymentFailure, amount, order.TotalAmount)
	}

	return nil
}

// ValidateRefund guards recordRefund: the requested amount must not exceed
// the captured payment minus refunds already recorded.
func ValidateRefund(entries []LedgerEntry, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: refund amount must be positive", ErrRefundExceedsPayment)
	}

	payment := CapturedPayment(entries)
	if payment == nil {
		return fmt.Errorf("%w: no captured payment to refund", ErrInvalidLedgerState)
	}

	refundable := payment.Amount - RefundedAmount(entries)
	if amount > refundable {
		return fmt.Errorf("%w: requested %d, refundable %d", ErrRefundExceedsPayment, amount, refundable)
	}

	return nil
}

// PayoutSpec describes one payout entry to append to the ledger.
type PayoutSpec struct {
	PayeeID string
	Amount  int64
}

// SettlementPlan is the ledger outcome of the delivered transition:
// the held commission entry moves to completed, and pending payouts are
// appended for the seller and the courier.
type SettlementPlan struct {
	CommissionEntryID int64
	Payouts           []PayoutSpec
	// RecordCashPayment is set for cash orders: the payment entry is
	// recorded (completed) when cash changes hands at the door.
	RecordCashPayment bool
}

// BuildSettlementPlan computes the delivered-transition side effects for an
// order. It fails with ErrInvalidLedgerState when the held commission entry
// is missing, since that means the order history is corrupted.
func BuildSettlementPlan(order Order, entries []LedgerEntry) (SettlementPlan, error) {
	var plan SettlementPlan

	held := HeldCommission(entries)
	if held == nil {
		return plan, fmt.Errorf("%w: no held commission entry for order %s", ErrInvalidLedgerState, order.OrderNumber)
	}
	plan.CommissionEntryID = held.ID

	if order.PaymentMethod == PaymentMethodCash && !order.IsPaid {
		plan.RecordCashPayment = true
	} else if CapturedPayment(entries) == nil {
		return plan, fmt.Errorf("%w: order %s has no captured payment", ErrInvalidLedgerState, order.OrderNumber)
	}

	sellerNet := order.SellerNetAmount()
	plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: order.SellerID, Amount: sellerNet})

	if order.CourierID != nil && order.CourierFee > 0 {
		plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: *order.CourierID, Amount: order.CourierFee})
	}

	return plan, nil
}

// ResolutionPlan is the outcome of an admin dispute resolution.
type ResolutionPlan struct {
	OrderStatus OrderStatus
	// RefundAmount > 0 appends a refund entry for the buyer.
	RefundAmount int64
	// ReleaseCommission completes the held commission entry; VoidCommission
	// marks it failed instead. At most one of the two is set, and only when
	// a held entry exists.
	ReleaseCommission bool
	VoidCommission    bool
	Payouts           []PayoutSpec
	// RecordCashPayment is set when a cash order settles through the
	// verdict: the payment entry is recorded (completed) as part of the
	// resolution, like the delivered transition does.
	RecordCashPayment bool
}

// BuildResolutionPlan computes the ledger and status outcome of resolving a
// dispute. favor_buyer cancels the order and refunds the full captured
// payment; favor_seller forces delivery and settles as usual; partial forces
// delivery, refunds the admin-chosen amount and reduces the seller payout
// accordingly. Every plan disburses exactly what the order's payment covers:
// refund + released commission + payouts always sum to the payment amount.
func BuildResolutionPlan(order Order, entries []LedgerEntry, outcome DisputeOutcome, partialRefund int64) (ResolutionPlan, error) {
	var plan ResolutionPlan

	if order.Status != OrderStatusDisputed {
		return plan, fmt.Errorf("%w: order %s is not disputed", ErrInvalidTransition, order.OrderNumber)
	}

	held := HeldCommission(entries)
	cashOnSettle := order.PaymentMethod == PaymentMethodCash && !order.IsPaid

	switch outcome {
	case DisputeOutcomeFavorBuyer:
		plan.OrderStatus = OrderStatusCancelled
		if payment := CapturedPayment(entries); payment != nil {
			refund := payment.Amount - RefundedAmount(entries)
			if refund > 0 {
				if err := ValidateRefund(entries, refund); err != nil {
					return plan, err
				}
				plan.RefundAmount = refund
			}
		}
		plan.VoidCommission = held != nil

	case DisputeOutcomeFavorSeller:
		plan.OrderStatus = OrderStatusDelivered
		if cashOnSettle {
			plan.RecordCashPayment = true
		} else if CapturedPayment(entries) == nil {
			return plan, fmt.Errorf("%w: cannot settle order %s for the seller without a captured payment", ErrPaymentFailure, order.OrderNumber)
		}
		plan.ReleaseCommission = held != nil
		plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: order.SellerID, Amount: order.SellerNetAmount()})
		if order.CourierID != nil && order.CourierFee > 0 {
			plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: *order.CourierID, Amount: order.CourierFee})
		}

	case DisputeOutcomePartial:
		if partialRefund <= 0 {
			return plan, fmt.Errorf("partial resolution requires a positive refund amount")
		}
		if cashOnSettle {
			plan.RecordCashPayment = true
			if refundable := order.TotalAmount - RefundedAmount(entries); partialRefund > refundable {
				return plan, fmt.Errorf("%w: requested %d, refundable %d", ErrRefundExceedsPayment, partialRefund, refundable)
			}
		} else {
			if CapturedPayment(entries) == nil {
				return plan, fmt.Errorf("%w: cannot refund order %s without a captured payment", ErrPaymentFailure, order.OrderNumber)
			}
			if err := ValidateRefund(entries, partialRefund); err != nil {
				return plan, err
			}
		}
		// The refund comes out of the seller's share; the commission and
		// the courier fee are untouched, so anything beyond that share
		// would disburse more than the payment covers.
		if partialRefund > order.SellerNetAmount() {
			return plan, fmt.Errorf("%w: refund %d exceeds the seller's share %d", ErrRefundExceedsPayment, partialRefund, order.SellerNetAmount())
		}
		plan.OrderStatus = OrderStatusDelivered
		plan.RefundAmount = partialRefund
		plan.ReleaseCommission = held != nil
		plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: order.SellerID, Amount: order.SellerNetAmount() - partialRefund})
		if order.CourierID != nil && order.CourierFee > 0 {
			plan.Payouts = append(plan.Payouts, PayoutSpec{PayeeID: *order.CourierID, Amount: order.CourierFee})
		}

	default:
		return plan, fmt.Errorf("unknown dispute outcome %q", outcome)
	}

	if err := ValidateTransition(order.Status, plan.OrderStatus); err != nil {
		return plan, err
	}

	return plan, nil
}

// CapturePlan describes how a successful gateway callback applies to an
// order's ledger.
type CapturePlan struct {
	// Replay is set when the reference was already captured; the callback
	// is acknowledged without touching the ledger again.
	Replay  bool
	EntryID int64
}

// PlanPaymentCapture guards the gateway callback. A callback for an order
// that reached a terminal status is refused: its pending payment entry was
// voided during cancellation, and money must never be captured for an order
// that can no longer be fulfilled.
func PlanPaymentCapture(order Order, entries []LedgerEntry, reference string, amount int64) (CapturePlan, error) {
	var plan CapturePlan

	if captured := CapturedPayment(entries); captured != nil {
		if captured.Reference != nil && *captured.Reference == reference {
			plan.Replay = true
			plan.EntryID = captured.ID
			return plan, nil
		}
		return plan, fmt.Errorf("%w: payment already captured for order %s", ErrDuplicateLedgerEntry, order.OrderNumber)
	}

	if IsTerminalStatus(order.Status) {
		return plan, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, order.OrderNumber, order.Status)
	}

	pending := PendingPayment(entries)
	if pending == nil {
		return plan, fmt.Errorf("%w: no pending payment for order %s", ErrInvalidLedgerState, order.OrderNumber)
	}

	if pending.Reference == nil || *pending.Reference != reference {
		return plan, fmt.Errorf("%w: unknown payment reference %q", ErrPaymentFailure, reference)
	}

	if amount != pending.Amount {
		return plan, fmt.Errorf("%w: callback amount %d does not match %d", ErrPaymentFailure, amount, pending.Amount)
	}

	plan.EntryID = pending.ID
	return plan, nil
}
