package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"
	"github.com/haitham-akram/prestige-designs-sub004/internal/queue"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService drives the provider checkout flow and reconciles
// asynchronous provider events against local order state.
type PaymentService struct {
	orders      repository.OrderRepository
	fulfillment *FulfillmentService
	tasks       *queue.Client
	provider    *paypal.Config
	returnBase  string
}

// NewPaymentService creates a payment service. returnBase is the public
// site URL used for checkout return/cancel links.
func NewPaymentService(
	orders repository.OrderRepository,
	fulfillment *FulfillmentService,
	tasks *queue.Client,
	provider *paypal.Config,
	returnBase string,
) *PaymentService {
	return &PaymentService{
		orders:      orders,
		fulfillment: fulfillment,
		tasks:       tasks,
		provider:    provider,
		returnBase:  strings.TrimRight(returnBase, "/"),
	}
}

// CreateProviderOrder registers the order with the payment provider and
// stores the provider reference for later reconciliation.
func (s *PaymentService) CreateProviderOrder(ctx context.Context, orderID uint) (*paypal.CreateResult, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.TotalPrice.IsZero() {
		return nil, ErrPaymentNotRequired
	}
	if order.PaymentStatus != constants.PaymentStatusPending && order.PaymentStatus != constants.PaymentStatusFailed {
		return nil, fmt.Errorf("%w: payment is %s", ErrOrderStateConflict, order.PaymentStatus)
	}

	result, err := paypal.CreateOrder(ctx, s.provider, paypal.CreateInput{
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalPrice.String(),
		Currency:    order.Currency,
		Description: fmt.Sprintf("Prestige Designs order %s", order.OrderNumber),
		ReturnURL:   s.returnBase + "/checkout/return?order=" + order.OrderNumber,
		CancelURL:   s.returnBase + "/checkout/cancel?order=" + order.OrderNumber,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateFields(order.ID, map[string]interface{}{
		"provider_order_ref": result.ProviderOrderID,
	}); err != nil {
		return nil, err
	}
	logger.Infow("provider_order_created",
		"order_number", order.OrderNumber,
		"provider_order_ref", result.ProviderOrderID)
	return result, nil
}

// CaptureProviderOrder is the customer-return capture path. The captured
// amount and currency are verified against the stored total before the
// payment is accepted.
func (s *PaymentService) CaptureProviderOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if PaymentIsSettled(order.PaymentStatus) {
		return order, nil
	}
	if order.ProviderOrderRef == "" {
		return nil, fmt.Errorf("%w: no provider order to capture", ErrOrderStateConflict)
	}

	result, err := paypal.CaptureOrder(ctx, s.provider, order.ProviderOrderRef)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(result.Status, "COMPLETED") {
		return nil, fmt.Errorf("%w: capture status %s", ErrOrderStateConflict, result.Status)
	}
	if err := verifyAmount(order, result.Amount, result.Currency); err != nil {
		s.flagAmountMismatch(order, result.Amount, result.Currency)
		return nil, err
	}

	if err := s.markPaid(order, result.CaptureID, "payment captured"); err != nil {
		return nil, err
	}
	s.deliverPaidOrder(order)
	return s.orders.GetByID(order.ID)
}

// HandleWebhook reconciles one provider event. Duplicate deliveries of
// the same event are acknowledged as no-ops; an amount mismatch rejects
// the event and leaves the order pending for manual review.
func (s *PaymentService) HandleWebhook(event *paypal.WebhookEvent) error {
	providerOrderID := event.RelatedOrderID()
	if providerOrderID == "" {
		logger.Warnw("webhook_missing_order_ref", "event_type", event.EventType, "event_id", event.ID)
		return nil
	}
	order, err := s.orders.GetByProviderOrderRef(providerOrderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("webhook_unknown_order",
			"event_type", event.EventType,
			"provider_order_ref", providerOrderID)
		return nil
	}

	outcome, handled := paypal.ToPaymentOutcome(event.EventType, event.ResourceStatus())
	if !handled {
		logger.Infow("webhook_event_ignored", "event_type", event.EventType, "order_id", order.ID)
		return nil
	}
	switch outcome {
	case constants.PaymentStatusPaid:
		return s.handleCaptureCompleted(order, event)
	case constants.PaymentStatusFailed:
		return s.handleCaptureDenied(order, event)
	default:
		// Informational events; money has not moved yet.
		return s.orders.AppendHistory(&models.OrderHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    "provider event " + event.EventType,
			Actor:   constants.HistoryActorProvider,
		})
	}
}

// RefundOrder refunds the order's capture in full. Used by the admin
// cancellation flow.
func (s *PaymentService) RefundOrder(order *models.Order) error {
	if order.ProviderCaptureRef == "" {
		return fmt.Errorf("%w: no capture reference on order", ErrRefundFailed)
	}
	result, err := paypal.RefundCapture(context.Background(), s.provider, order.ProviderCaptureRef)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}
	logger.Infow("provider_refund_issued",
		"order_number", order.OrderNumber,
		"refund_id", result.RefundID,
		"refund_status", result.Status)
	return nil
}

func (s *PaymentService) handleCaptureCompleted(order *models.Order, event *paypal.WebhookEvent) error {
	if PaymentIsSettled(order.PaymentStatus) || OrderIsTerminal(order.Status) {
		logger.Infow("webhook_duplicate_ignored",
			"order_number", order.OrderNumber,
			"payment_status", order.PaymentStatus,
			"event_id", event.ID)
		return nil
	}
	amount, currency := event.CaptureAmount()
	if err := verifyAmount(order, amount, currency); err != nil {
		s.flagAmountMismatch(order, amount, currency)
		return err
	}
	captureRef := ""
	if event.Resource != nil {
		if id, ok := event.Resource["id"].(string); ok {
			captureRef = id
		}
	}
	if err := s.markPaid(order, captureRef, "payment confirmed by provider webhook"); err != nil {
		return err
	}
	s.deliverPaidOrder(order)
	return nil
}

func (s *PaymentService) handleCaptureDenied(order *models.Order, event *paypal.WebhookEvent) error {
	if PaymentIsSettled(order.PaymentStatus) {
		return nil
	}
	if err := CheckPaymentTransition(order.PaymentStatus, constants.PaymentStatusFailed); err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		if err := txOrders.UpdateFields(order.ID, map[string]interface{}{
			"payment_status": constants.PaymentStatusFailed,
		}); err != nil {
			return err
		}
		return txOrders.AppendHistory(&models.OrderHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    "payment capture denied by provider, event " + event.ID,
			Actor:   constants.HistoryActorProvider,
		})
	})
}

// markPaid applies the paid transition with an optimistic re-check of
// the current payment status inside the transaction, guarding against
// concurrent deliveries of the same event.
func (s *PaymentService) markPaid(order *models.Order, captureRef, note string) error {
	if err := CheckPaymentTransition(order.PaymentStatus, constants.PaymentStatusPaid); err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.Select("id", "payment_status", "status").First(&current, order.ID).Error; err != nil {
			return err
		}
		if PaymentIsSettled(current.PaymentStatus) {
			return nil
		}
		txOrders := s.orders.WithTx(tx)
		if err := txOrders.UpdateFields(order.ID, map[string]interface{}{
			"payment_status":       constants.PaymentStatusPaid,
			"status":               constants.OrderStatusProcessing,
			"paid_at":              gorm.Expr("CURRENT_TIMESTAMP"),
			"provider_capture_ref": captureRef,
		}); err != nil {
			return err
		}
		return txOrders.AppendHistory(&models.OrderHistory{
			OrderID: order.ID,
			Status:  constants.OrderStatusProcessing,
			Note:    note,
			Actor:   constants.HistoryActorProvider,
		})
	})
}

// deliverPaidOrder runs the delivery pipeline for a freshly paid order.
// A failure here never loses the payment; delivery is retried through
// the queue.
func (s *PaymentService) deliverPaidOrder(order *models.Order) {
	s.tasks.EnqueueNotification(constants.NotificationEventOrderPaid, order.ID,
		fmt.Sprintf("order %s paid, total %s %s", order.OrderNumber, order.TotalPrice.String(), order.Currency))
	if _, err := s.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); err != nil {
		logger.Errorw("post_payment_delivery_failed", "order_id", order.ID, "error", err)
		s.tasks.EnqueueOrderDeliver(order.ID)
	}
}

func (s *PaymentService) flagAmountMismatch(order *models.Order, amount, currency string) {
	logger.Errorw("payment_amount_mismatch",
		"order_number", order.OrderNumber,
		"expected", order.TotalPrice.String(),
		"expected_currency", order.Currency,
		"got", amount,
		"got_currency", currency)
	if err := s.orders.AppendHistory(&models.OrderHistory{
		OrderID: order.ID,
		Status:  order.Status,
		Note:    fmt.Sprintf("captured amount %s %s does not match order total %s %s, manual review required",
			amount, currency, order.TotalPrice.String(), order.Currency),
		Actor:   constants.HistoryActorProvider,
	}); err != nil {
		logger.Errorw("history_append_failed", "order_id", order.ID, "error", err)
	}
}

// verifyAmount compares captured value and currency with the order.
func verifyAmount(order *models.Order, amount, currency string) error {
	captured, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return fmt.Errorf("%w: unparseable amount %q", ErrPaymentAmountMismatch, amount)
	}
	if !captured.Round(2).Equal(order.TotalPrice.Decimal.Round(2)) {
		return ErrPaymentAmountMismatch
	}
	if !strings.EqualFold(strings.TrimSpace(currency), order.Currency) {
		return ErrPaymentAmountMismatch
	}
	return nil
}
