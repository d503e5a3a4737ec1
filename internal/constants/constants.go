package constants

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment status constants.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFree     = "free"
)

// Customization status constants (order-level aggregate of item outcomes).
const (
	CustomizationStatusNone      = "none"
	CustomizationStatusPending   = "pending"
	CustomizationStatusCompleted = "completed"
)

// Per-item delivery status constants.
const (
	ItemDeliveryPending           = "pending"
	ItemDeliveryAutoDelivered     = "auto_delivered"
	ItemDeliveryAwaitingCustom    = "awaiting_custom_work"
	ItemDeliveryManuallyDelivered = "delivered"
)

// Delivery resolution outcomes.
const (
	DeliveryOutcomeAuto       = "auto_deliver"
	DeliveryOutcomeCustomWork = "needs_custom_work"
)

// Order history actor constants.
const (
	HistoryActorSystem   = "system"
	HistoryActorAdmin    = "admin"
	HistoryActorCustomer = "customer"
	HistoryActorProvider = "payment_provider"
)

// PayPal webhook event types handled by the reconciliation flow.
const (
	PaypalEventOrderApproved   = "CHECKOUT.ORDER.APPROVED"
	PaypalEventCaptureComplete = "PAYMENT.CAPTURE.COMPLETED"
	PaypalEventCapturePending  = "PAYMENT.CAPTURE.PENDING"
	PaypalEventCaptureDenied   = "PAYMENT.CAPTURE.DENIED"
)

// Promo code type constants.
const (
	PromoTypeFixed   = "fixed"
	PromoTypePercent = "percent"
)

// Promo code scope constants.
const (
	PromoScopeAll     = "all"
	PromoScopeProduct = "product"
)

// Review status constants.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Queue task type constants.
const (
	QueueDefault             = "default"
	TaskOrderStatusEmail     = "order:status_email"
	TaskOrderDeliver         = "order:deliver"
	TaskNotificationDispatch = "notification:dispatch"
)

// Notification event constants.
const (
	NotificationEventOrderPaid          = "order_paid"
	NotificationEventOrderCompleted     = "order_completed"
	NotificationEventCustomWorkPending  = "custom_work_pending"
	NotificationEventOrderCancelled     = "order_cancelled"
	NotificationEventManualRefundNeeded = "manual_refund_needed"
)

// Delivery window applied when an order completes.
const (
	DeliveryExpiryDays           = 30
	DefaultGrantMaxDownloads     = 10
	OrderNumberPrefix            = "PD"
	OrderNumberGenerateMaxRetry  = 5
	StorageUploadMaxAttempts     = 3
	StorageUploadBackoffCapSecs  = 10
	StorageUploadBaseBackoffSecs = 1
)

// Currency defaults.
const (
	SiteCurrencyDefault = "USD"
)
