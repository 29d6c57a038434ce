package db

import (
	"fmt"
)

// transitionTable is the single source of truth for order status changes.
// Every transaction that mutates order.status goes through ValidateTransition;
// handlers never compare statuses themselves.
var transitionTable = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusConfirmed: {OrderStatusPickedUp, OrderStatusDisputed},
	OrderStatusPickedUp:  {OrderStatusInTransit, OrderStatusDisputed},
	OrderStatusInTransit: {OrderStatusDelivered, OrderStatusDisputed},
	OrderStatusDisputed:  {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsTerminalStatus reports whether no further transition can leave the status.
func IsTerminalStatus(status OrderStatus) bool {
	return len(transitionTable[status]) == 0
}

// ValidateTransition checks the from->to edge against the transition table.
// It returns ErrInvalidTransition for unknown statuses, terminal states and
// edges that would skip a state.
func ValidateTransition(from, to OrderStatus) error {
	allowed, ok := transitionTable[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}

	for _, next := range allowed {
		if next == to {
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// CanOpenDispute reports whether a dispute may still be opened for an order
// in the given status. Disputes are only allowed before the order settles.
func CanOpenDispute(status OrderStatus) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPickedUp, OrderStatusInTransit:
		return true
	default:
		return false
	}
}

// returnTransitions is the linear post-delivery return flow. Returns never
// touch the order's own status.
var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:  {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved: {ReturnStatusShipped},
	ReturnStatusShipped:  {ReturnStatusReceived},
	ReturnStatusReceived: {ReturnStatusRefunded},
	ReturnStatusRefunded: {ReturnStatusClosed},
	ReturnStatusRejected: {},
	ReturnStatusClosed:   {},
}

// ValidateReturnTransition checks the from->to edge of the return flow.
func ValidateReturnTransition(from, to ReturnStatus) error {
	for _, next := range returnTransitions[from] {
		if next == to {
			return nil
		}
	}

	return fmt.Errorf("%w: return %s -> %s", ErrInvalidTransition, from, to)
}
