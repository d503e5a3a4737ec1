package queue

// OrderStatusEmailPayload asks the worker to send a status email for an
// order.
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// OrderDeliverPayload asks the worker to run delivery resolution for a
// paid order.
type OrderDeliverPayload struct {
	OrderID uint `json:"order_id"`
}

// NotificationDispatchPayload asks the worker to post an operational
// notification to the configured channel.
type NotificationDispatchPayload struct {
	Event   string `json:"event"`
	OrderID uint   `json:"order_id"`
	Message string `json:"message,omitempty"`
}
