package notification

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gogomarket/gogomarket-BE/internal/db"
)

const (
	TypeOrder   = "order"
	TypePayment = "payment"
	TypeDispute = "dispute"
	TypeReturn  = "return"
	TypePayout  = "payout"
)

// Builders for the user-facing notification texts. Amounts are formatted
// with thousand separators since ledger values are plain UZS integers.

func OrderConfirmed(order db.Order) (title, message string) {
	title = "Order confirmed"
	message = fmt.Sprintf("Your order %s has been confirmed by the seller and is waiting for a courier.", order.OrderNumber)
	return title, message
}

func OrderCancelled(order db.Order, reason string) (title, message string) {
	title = "Order cancelled"
	message = fmt.Sprintf("Order %s has been cancelled: %s.", order.OrderNumber, reason)
	return title, message
}

func OrderPickedUp(order db.Order) (title, message string) {
	title = "Order picked up"
	message = fmt.Sprintf("A courier has picked up your order %s from the seller.", order.OrderNumber)
	return title, message
}

// OrderInTransit carries the delivery code; it is only ever sent to the buyer.
func OrderInTransit(order db.Order, deliveryCode string) (title, message string) {
	title = "Order on the way"
	message = fmt.Sprintf("Your order %s is on the way. Give the courier code %s when it arrives.", order.OrderNumber, deliveryCode)
	return title, message
}

func OrderDelivered(order db.Order) (title, message string) {
	title = "Order delivered"
	message = fmt.Sprintf("Order %s has been delivered.", order.OrderNumber)
	return title, message
}

func PaymentCaptured(order db.Order) (title, message string) {
	title = "Payment received"
	message = fmt.Sprintf("Your payment of %s UZS for order %s has been received.",
		humanize.Comma(order.TotalAmount), order.OrderNumber)
	return title, message
}

func RefundIssued(order db.Order, amount int64) (title, message string) {
	title = "Refund issued"
	message = fmt.Sprintf("A refund of %s UZS for order %s has been issued to you.",
		humanize.Comma(amount), order.OrderNumber)
	return title, message
}

func DisputeOpened(order db.Order) (title, message string) {
	title = "Dispute opened"
	message = fmt.Sprintf("A dispute has been opened for order %s. The order is frozen until an administrator resolves it.", order.OrderNumber)
	return title, message
}

func DisputeResolved(order db.Order, outcome db.DisputeOutcome) (title, message string) {
	title = "Dispute resolved"
	message = fmt.Sprintf("The dispute for order %s has been resolved (%s).", order.OrderNumber, outcome)
	return title, message
}

func ReturnUpdated(ret db.Return, orderNumber string) (title, message string) {
	title = "Return updated"
	message = fmt.Sprintf("The return for order %s is now %s.", orderNumber, ret.Status)
	return title, message
}
