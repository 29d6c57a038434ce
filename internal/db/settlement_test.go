package db

import (
	"testing"

	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSettledCardOrder(t *testing.T) (Order, []LedgerEntry) {
	t.Helper()

	courierID := "courier-1"
	order := Order{
		ID:                 uuid.New(),
		OrderNumber:        "ORD-TEST0001",
		BuyerID:            "buyer-1",
		SellerID:           "seller-1",
		CourierID:          &courierID,
		ItemsSubtotal:      80_000,
		CourierFee:         10_000,
		PlatformCommission: CommissionAmount(80_000),
		TotalAmount:        90_000,
		Status:             OrderStatusInTransit,
		PaymentMethod:      PaymentMethodCard,
		IsPaid:             true,
	}

	entries := []LedgerEntry{
		{ID: 1, OrderID: order.ID, Type: LedgerEntryTypePayment, Amount: 90_000, Status: LedgerEntryStatusCompleted},
		{ID: 2, OrderID: order.ID, Type: LedgerEntryTypeCommission, Amount: 4_000, Status: LedgerEntryStatusHeld},
	}

	return order, entries
}

func TestCommissionAmount(t *testing.T) {
	require.Equal(t, int64(4_000), CommissionAmount(80_000))
	require.Equal(t, int64(0), CommissionAmount(0))

	// Commission rounds down.
	require.Equal(t, int64(4_999), CommissionAmount(99_990))
}

func TestBuildSettlementPlan(t *testing.T) {
	order, entries := newSettledCardOrder(t)

	plan, err := BuildSettlementPlan(order, entries)
	require.NoError(t, err)
	require.False(t, plan.RecordCashPayment)
	require.Equal(t, int64(2), plan.CommissionEntryID)

	require.Len(t, plan.Payouts, 2)
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 76_000}, plan.Payouts[0])
	require.Equal(t, PayoutSpec{PayeeID: "courier-1", Amount: 10_000}, plan.Payouts[1])
}

func TestBuildSettlementPlanCashOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.PaymentMethod = PaymentMethodCash
	order.IsPaid = false
	entries = entries[1:] // no payment entry yet

	plan, err := BuildSettlementPlan(order, entries)
	require.NoError(t, err)
	require.True(t, plan.RecordCashPayment)
}

func TestBuildSettlementPlanMissingCommission(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	entries = entries[:1] // payment only

	_, err := BuildSettlementPlan(order, entries)
	require.ErrorIs(t, err, ErrInvalidLedgerState)
}

func TestBuildSettlementPlanUnpaidCardOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	entries[0].Status = LedgerEntryStatusPending

	_, err := BuildSettlementPlan(order, entries)
	require.ErrorIs(t, err, ErrInvalidLedgerState)
}

func TestValidatePayment(t *testing.T) {
	order, entries := newSettledCardOrder(t)

	err := ValidatePayment(order, nil, order.TotalAmount)
	require.NoError(t, err)

	err = ValidatePayment(order, nil, order.TotalAmount-1)
	require.ErrorIs(t, err, ErrPaymentFailure)

	err = ValidatePayment(order, entries, order.TotalAmount)
	require.ErrorIs(t, err, ErrDuplicateLedgerEntry)

	// A failed payment attempt does not block a retry.
	entries[0].Status = LedgerEntryStatusFailed
	err = ValidatePayment(order, entries, order.TotalAmount)
	require.NoError(t, err)
}

func TestValidateRefund(t *testing.T) {
	_, entries := newSettledCardOrder(t)

	require.NoError(t, ValidateRefund(entries, 90_000))
	require.NoError(t, ValidateRefund(entries, 30_000))

	err := ValidateRefund(entries, 90_001)
	require.ErrorIs(t, err, ErrRefundExceedsPayment)

	err = ValidateRefund(entries, 0)
	require.ErrorIs(t, err, ErrRefundExceedsPayment)

	err = ValidateRefund(entries[1:], 1_000)
	require.ErrorIs(t, err, ErrInvalidLedgerState)
}

func TestValidateRefundCountsPriorRefunds(t *testing.T) {
	_, entries := newSettledCardOrder(t)

	entries = append(entries, LedgerEntry{
		ID:      3,
		Type:    LedgerEntryTypeRefund,
		Amount:  60_000,
		Status:  LedgerEntryStatusCompleted,
		OrderID: entries[0].OrderID,
	})

	require.NoError(t, ValidateRefund(entries, 30_000))
	require.ErrorIs(t, ValidateRefund(entries, 30_001), ErrRefundExceedsPayment)
}

func TestBuildResolutionPlanFavorBuyer(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed

	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorBuyer, 0)
	require.NoError(t, err)
	require.Equal(t, OrderStatusCancelled, plan.OrderStatus)
	require.Equal(t, int64(90_000), plan.RefundAmount)
	require.True(t, plan.VoidCommission)
	require.False(t, plan.ReleaseCommission)
	require.Empty(t, plan.Payouts)
}

func TestBuildResolutionPlanFavorBuyerUnpaidOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed
	entries = entries[1:] // no captured payment

	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorBuyer, 0)
	require.NoError(t, err)
	require.Zero(t, plan.RefundAmount)
}

func TestBuildResolutionPlanFavorSeller(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed

	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorSeller, 0)
	require.NoError(t, err)
	require.Equal(t, OrderStatusDelivered, plan.OrderStatus)
	require.Zero(t, plan.RefundAmount)
	require.True(t, plan.ReleaseCommission)
	require.False(t, plan.VoidCommission)

	require.Len(t, plan.Payouts, 2)
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 76_000}, plan.Payouts[0])
	require.Equal(t, PayoutSpec{PayeeID: "courier-1", Amount: 10_000}, plan.Payouts[1])
}

func TestBuildResolutionPlanPartial(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed

	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomePartial, 20_000)
	require.NoError(t, err)
	require.Equal(t, OrderStatusDelivered, plan.OrderStatus)
	require.Equal(t, int64(20_000), plan.RefundAmount)
	require.True(t, plan.ReleaseCommission)

	// Seller payout shrinks by the refunded amount.
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 56_000}, plan.Payouts[0])
	require.Equal(t, PayoutSpec{PayeeID: "courier-1", Amount: 10_000}, plan.Payouts[1])
}

func TestBuildResolutionPlanPartialCappedAtSellerShare(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed

	// The commission and the courier fee are not refundable, so anything
	// beyond the seller's 76,000 share would disburse more than the 90,000
	// payment covers.
	_, err := BuildResolutionPlan(order, entries, DisputeOutcomePartial, 80_000)
	require.ErrorIs(t, err, ErrRefundExceedsPayment)

	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomePartial, 76_000)
	require.NoError(t, err)
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 0}, plan.Payouts[0])
}

func TestResolutionPlanConservesMoney(t *testing.T) {
	testCases := []struct {
		name          string
		outcome       DisputeOutcome
		partialRefund int64
	}{
		{name: "FavorBuyer", outcome: DisputeOutcomeFavorBuyer},
		{name: "FavorSeller", outcome: DisputeOutcomeFavorSeller},
		{name: "Partial", outcome: DisputeOutcomePartial, partialRefund: 20_000},
		{name: "PartialMax", outcome: DisputeOutcomePartial, partialRefund: 76_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order, entries := newSettledCardOrder(t)
			order.Status = OrderStatusDisputed

			plan, err := BuildResolutionPlan(order, entries, tc.outcome, tc.partialRefund)
			require.NoError(t, err)

			// Whatever the verdict, the money leaving the ledger must
			// equal the captured payment.
			disbursed := plan.RefundAmount
			if plan.ReleaseCommission {
				disbursed += order.PlatformCommission
			}
			for _, payout := range plan.Payouts {
				require.GreaterOrEqual(t, payout.Amount, int64(0))
				disbursed += payout.Amount
			}
			require.Equal(t, order.TotalAmount, disbursed)
		})
	}
}

func TestBuildResolutionPlanCashOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed
	order.PaymentMethod = PaymentMethodCash
	order.IsPaid = false
	entries = entries[1:] // cash not collected yet, held commission only

	// favor_seller records the cash payment as part of the verdict, so the
	// payouts are backed by money actually received.
	plan, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorSeller, 0)
	require.NoError(t, err)
	require.True(t, plan.RecordCashPayment)
	require.True(t, plan.ReleaseCommission)
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 76_000}, plan.Payouts[0])

	plan, err = BuildResolutionPlan(order, entries, DisputeOutcomePartial, 20_000)
	require.NoError(t, err)
	require.True(t, plan.RecordCashPayment)
	require.Equal(t, int64(20_000), plan.RefundAmount)
	require.Equal(t, PayoutSpec{PayeeID: "seller-1", Amount: 56_000}, plan.Payouts[0])

	_, err = BuildResolutionPlan(order, entries, DisputeOutcomePartial, 80_000)
	require.ErrorIs(t, err, ErrRefundExceedsPayment)
}

func TestBuildResolutionPlanUnpaidCardOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusDisputed
	entries = entries[1:] // no captured payment

	_, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorSeller, 0)
	require.ErrorIs(t, err, ErrPaymentFailure)

	_, err = BuildResolutionPlan(order, entries, DisputeOutcomePartial, 20_000)
	require.ErrorIs(t, err, ErrPaymentFailure)
}

func TestPlanPaymentCapture(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusPending
	order.IsPaid = false
	entries = entries[:1]
	entries[0].Status = LedgerEntryStatusPending
	entries[0].Reference = util.StringPointer("ref-001")

	plan, err := PlanPaymentCapture(order, entries, "ref-001", 90_000)
	require.NoError(t, err)
	require.False(t, plan.Replay)
	require.Equal(t, int64(1), plan.EntryID)

	_, err = PlanPaymentCapture(order, entries, "ref-999", 90_000)
	require.ErrorIs(t, err, ErrPaymentFailure)

	_, err = PlanPaymentCapture(order, entries, "ref-001", 89_000)
	require.ErrorIs(t, err, ErrPaymentFailure)

	_, err = PlanPaymentCapture(order, nil, "ref-001", 90_000)
	require.ErrorIs(t, err, ErrInvalidLedgerState)
}

func TestPlanPaymentCaptureReplay(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	entries[0].Reference = util.StringPointer("ref-001")

	// The gateway retries callbacks; a captured reference is acknowledged
	// without a second ledger entry.
	plan, err := PlanPaymentCapture(order, entries, "ref-001", 90_000)
	require.NoError(t, err)
	require.True(t, plan.Replay)
	require.Equal(t, int64(1), plan.EntryID)

	_, err = PlanPaymentCapture(order, entries, "ref-002", 90_000)
	require.ErrorIs(t, err, ErrDuplicateLedgerEntry)
}

func TestPlanPaymentCaptureCancelledOrder(t *testing.T) {
	order, entries := newSettledCardOrder(t)
	order.Status = OrderStatusCancelled
	order.IsPaid = false
	entries = entries[:1]
	entries[0].Status = LedgerEntryStatusPending
	entries[0].Reference = util.StringPointer("ref-001")

	// A late callback must never capture money for a cancelled order, even
	// if its pending entry somehow survived cancellation.
	_, err := PlanPaymentCapture(order, entries, "ref-001", 90_000)
	require.ErrorIs(t, err, ErrInvalidTransition)

	entries[0].Status = LedgerEntryStatusFailed
	_, err = PlanPaymentCapture(order, entries, "ref-001", 90_000)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuildResolutionPlanGuards(t *testing.T) {
	order, entries := newSettledCardOrder(t)

	_, err := BuildResolutionPlan(order, entries, DisputeOutcomeFavorBuyer, 0)
	require.ErrorIs(t, err, ErrInvalidTransition)

	order.Status = OrderStatusDisputed

	_, err = BuildResolutionPlan(order, entries, DisputeOutcomePartial, 0)
	require.Error(t, err)

	_, err = BuildResolutionPlan(order, entries, DisputeOutcomePartial, 90_001)
	require.ErrorIs(t, err, ErrRefundExceedsPayment)

	_, err = BuildResolutionPlan(order, entries, DisputeOutcome("split"), 0)
	require.Error(t, err)
}
