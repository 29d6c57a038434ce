package event

// Event is one server-sent event. Topics follow the "order:<id>" and
// "user:<id>" naming scheme.
type Event struct {
	Topic string
	Type  string
	Data  interface{}
}

const (
	EventTypeOrderConfirmed   = "order_confirmed"
	EventTypeOrderCancelled   = "order_cancelled"
	EventTypeOrderPickedUp    = "order_picked_up"
	EventTypeOrderInTransit   = "order_in_transit"
	EventTypeOrderDelivered   = "order_delivered"
	EventTypePaymentCaptured  = "payment_captured"
	EventTypePaymentFailed    = "payment_failed"
	EventTypeDisputeOpened    = "dispute_opened"
	EventTypeDisputeResolved  = "dispute_resolved"
	EventTypeReturnUpdated    = "return_updated"
	EventTypeNewNotification  = "new_notification"
)

// EventSender pushes events to subscribed clients.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
}
