package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{name: "pending to confirmed", from: OrderStatusPending, to: OrderStatusConfirmed},
		{name: "pending to cancelled", from: OrderStatusPending, to: OrderStatusCancelled},
		{name: "confirmed to picked_up", from: OrderStatusConfirmed, to: OrderStatusPickedUp},
		{name: "picked_up to in_transit", from: OrderStatusPickedUp, to: OrderStatusInTransit},
		{name: "in_transit to delivered", from: OrderStatusInTransit, to: OrderStatusDelivered},
		{name: "disputed to delivered", from: OrderStatusDisputed, to: OrderStatusDelivered},
		{name: "disputed to cancelled", from: OrderStatusDisputed, to: OrderStatusCancelled},
		{name: "skip confirmed", from: OrderStatusPending, to: OrderStatusPickedUp, wantErr: true},
		{name: "skip pickup", from: OrderStatusConfirmed, to: OrderStatusInTransit, wantErr: true},
		{name: "backwards", from: OrderStatusInTransit, to: OrderStatusConfirmed, wantErr: true},
		{name: "confirmed cannot cancel directly", from: OrderStatusConfirmed, to: OrderStatusCancelled, wantErr: true},
		{name: "delivered is terminal", from: OrderStatusDelivered, to: OrderStatusDisputed, wantErr: true},
		{name: "cancelled is terminal", from: OrderStatusCancelled, to: OrderStatusPending, wantErr: true},
		{name: "unknown status", from: OrderStatus("shipped"), to: OrderStatusDelivered, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	require.True(t, IsTerminalStatus(OrderStatusDelivered))
	require.True(t, IsTerminalStatus(OrderStatusCancelled))

	for _, status := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPickedUp,
		OrderStatusInTransit,
		OrderStatusDisputed,
	} {
		require.False(t, IsTerminalStatus(status), "status %s", status)
	}
}

func TestCanOpenDispute(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPickedUp,
		OrderStatusInTransit,
	} {
		require.True(t, CanOpenDispute(status), "status %s", status)
	}

	for _, status := range []OrderStatus{
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusDisputed,
	} {
		require.False(t, CanOpenDispute(status), "status %s", status)
	}
}

func TestValidateReturnTransition(t *testing.T) {
	steps := []struct {
		from ReturnStatus
		to   ReturnStatus
	}{
		{ReturnStatusPending, ReturnStatusApproved},
		{ReturnStatusApproved, ReturnStatusShipped},
		{ReturnStatusShipped, ReturnStatusReceived},
		{ReturnStatusReceived, ReturnStatusRefunded},
		{ReturnStatusRefunded, ReturnStatusClosed},
	}
	for _, step := range steps {
		require.NoError(t, ValidateReturnTransition(step.from, step.to))
	}

	require.NoError(t, ValidateReturnTransition(ReturnStatusPending, ReturnStatusRejected))

	require.ErrorIs(t, ValidateReturnTransition(ReturnStatusPending, ReturnStatusShipped), ErrInvalidTransition)
	require.ErrorIs(t, ValidateReturnTransition(ReturnStatusApproved, ReturnStatusRefunded), ErrInvalidTransition)
	require.ErrorIs(t, ValidateReturnTransition(ReturnStatusRejected, ReturnStatusApproved), ErrInvalidTransition)
	require.ErrorIs(t, ValidateReturnTransition(ReturnStatusClosed, ReturnStatusPending), ErrInvalidTransition)
}
