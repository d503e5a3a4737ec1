package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"

	"github.com/shopspring/decimal"
)

func captureCompletedEvent(eventID, providerOrderID, captureID, amount, currency string) *paypal.WebhookEvent {
	return &paypal.WebhookEvent{
		ID:        eventID,
		EventType: constants.PaypalEventCaptureComplete,
		Resource: map[string]interface{}{
			"id":     captureID,
			"status": "COMPLETED",
			"amount": map[string]interface{}{
				"value":         amount,
				"currency_code": currency,
			},
			"supplementary_data": map[string]interface{}{
				"related_ids": map[string]interface{}{
					"order_id": providerOrderID,
				},
			},
		},
	}
}

func (e *orderFlowEnv) createPendingPaymentOrder(t *testing.T, productSlug, providerRef string) *models.Order {
	t.Helper()
	product := e.createProduct(t, productSlug, decimal.NewFromFloat(24.99), false)
	e.createFile(t, product.ID, productSlug+".zip", "")
	order, err := e.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "buyer@example.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if err := e.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("provider_order_ref", providerRef).Error; err != nil {
		t.Fatalf("set provider ref failed: %v", err)
	}
	reloaded, err := e.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return reloaded
}

func TestHandleWebhookCaptureCompleted(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_capture_completed")
	order := env.createPendingPaymentOrder(t, "hook-pack", "PAYPAL-ORDER-1")

	event := captureCompletedEvent("WH-1", "PAYPAL-ORDER-1", "CAP-1", "24.99", "USD")
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("webhook error: %v", err)
	}

	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", reloaded.PaymentStatus)
	}
	if reloaded.ProviderCaptureRef != "CAP-1" {
		t.Fatalf("expected capture ref stored, got %q", reloaded.ProviderCaptureRef)
	}
	if reloaded.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}
	// The auto-deliverable item means the paid order completes end to end.
	if reloaded.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed after delivery, got %s", reloaded.Status)
	}
}

func TestHandleWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_duplicate")
	order := env.createPendingPaymentOrder(t, "dup-pack", "PAYPAL-ORDER-2")

	event := captureCompletedEvent("WH-2", "PAYPAL-ORDER-2", "CAP-2", "24.99", "USD")
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("first delivery error: %v", err)
	}
	var grantsAfterFirst int64
	env.db.Model(&models.OrderDesignFile{}).Where("order_id = ?", order.ID).Count(&grantsAfterFirst)

	// The provider redelivers the same event.
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("duplicate delivery must be acknowledged: %v", err)
	}

	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", reloaded.PaymentStatus)
	}
	var grantsAfterSecond int64
	env.db.Model(&models.OrderDesignFile{}).Where("order_id = ?", order.ID).Count(&grantsAfterSecond)
	if grantsAfterFirst != grantsAfterSecond {
		t.Fatalf("duplicate webhook must not change grants: %d -> %d", grantsAfterFirst, grantsAfterSecond)
	}
}

func TestHandleWebhookAmountMismatchLeavesOrderPending(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_mismatch")
	order := env.createPendingPaymentOrder(t, "mismatch-pack", "PAYPAL-ORDER-3")

	event := captureCompletedEvent("WH-3", "PAYPAL-ORDER-3", "CAP-3", "1.00", "USD")
	err := env.paymentSvc.HandleWebhook(event)
	if !errors.Is(err, ErrPaymentAmountMismatch) {
		t.Fatalf("expected ErrPaymentAmountMismatch, got %v", err)
	}

	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("mismatched capture must leave payment pending, got %s", reloaded.PaymentStatus)
	}
	var history []models.OrderHistory
	if err := env.db.Where("order_id = ?", order.ID).Order("id desc").Find(&history).Error; err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(history) == 0 || !strings.Contains(history[0].Note, "manual review") {
		t.Fatalf("expected a review note, got %+v", history)
	}
}

func TestHandleWebhookCurrencyMismatch(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_currency_mismatch")
	env.createPendingPaymentOrder(t, "currency-pack", "PAYPAL-ORDER-4")

	event := captureCompletedEvent("WH-4", "PAYPAL-ORDER-4", "CAP-4", "24.99", "EUR")
	if err := env.paymentSvc.HandleWebhook(event); !errors.Is(err, ErrPaymentAmountMismatch) {
		t.Fatalf("expected ErrPaymentAmountMismatch for currency, got %v", err)
	}
}

func TestHandleWebhookUnknownOrderAcknowledged(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_unknown")
	_ = env

	event := captureCompletedEvent("WH-5", "PAYPAL-ORDER-UNKNOWN", "CAP-5", "24.99", "USD")
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("unknown order must be acknowledged, got %v", err)
	}
}

func TestHandleWebhookCaptureDenied(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_denied")
	order := env.createPendingPaymentOrder(t, "denied-pack", "PAYPAL-ORDER-6")

	event := &paypal.WebhookEvent{
		ID:        "WH-6",
		EventType: constants.PaypalEventCaptureDenied,
		Resource: map[string]interface{}{
			"status": "DECLINED",
			"supplementary_data": map[string]interface{}{
				"related_ids": map[string]interface{}{
					"order_id": "PAYPAL-ORDER-6",
				},
			},
		},
	}
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("webhook error: %v", err)
	}
	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", reloaded.PaymentStatus)
	}

	// A later successful capture is still allowed after a denial.
	retry := captureCompletedEvent("WH-7", "PAYPAL-ORDER-6", "CAP-7", "24.99", "USD")
	if err := env.paymentSvc.HandleWebhook(retry); err != nil {
		t.Fatalf("retry capture error: %v", err)
	}
	reloaded, err = env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid after retry, got %s", reloaded.PaymentStatus)
	}
}

func TestHandleWebhookInformationalEventAppendsHistory(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_informational")
	order := env.createPendingPaymentOrder(t, "info-pack", "PAYPAL-ORDER-8")

	event := &paypal.WebhookEvent{
		ID:        "WH-8",
		EventType: constants.PaypalEventOrderApproved,
		Resource: map[string]interface{}{
			"id": "PAYPAL-ORDER-8",
		},
	}
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("webhook error: %v", err)
	}
	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("informational event must not change payment, got %s", reloaded.PaymentStatus)
	}
	var historyCount int64
	env.db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&historyCount)
	if historyCount < 2 {
		t.Fatalf("expected an informational history entry, got %d entries", historyCount)
	}
}

func TestHandleWebhookUnmappedEventIgnored(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_unmapped")
	order := env.createPendingPaymentOrder(t, "dispute-pack", "PAYPAL-ORDER-9")

	var historyBefore int64
	env.db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&historyBefore)

	event := &paypal.WebhookEvent{
		ID:        "WH-9",
		EventType: "CUSTOMER.DISPUTE.CREATED",
		Resource: map[string]interface{}{
			"supplementary_data": map[string]interface{}{
				"related_ids": map[string]interface{}{
					"order_id": "PAYPAL-ORDER-9",
				},
			},
		},
	}
	if err := env.paymentSvc.HandleWebhook(event); err != nil {
		t.Fatalf("unmapped event must be acknowledged, got %v", err)
	}

	reloaded, err := env.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unmapped event must not change payment, got %s", reloaded.PaymentStatus)
	}
	var historyAfter int64
	env.db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&historyAfter)
	if historyBefore != historyAfter {
		t.Fatalf("unmapped event must not append history: %d -> %d", historyBefore, historyAfter)
	}
}

func TestCreateProviderOrderGuards(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_create_guards")
	free := env.createProduct(t, "free-pack", decimal.Zero, false)
	env.createFile(t, free.ID, "free.zip", "")
	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: free.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if _, err := env.paymentSvc.CreateProviderOrder(nil, order.ID); !errors.Is(err, ErrPaymentNotRequired) {
		t.Fatalf("expected ErrPaymentNotRequired, got %v", err)
	}
	if _, err := env.paymentSvc.CreateProviderOrder(nil, 99999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestRefundOrderRequiresCaptureRef(t *testing.T) {
	env := setupOrderFlowTest(t, "payment_refund_guard")
	if err := env.paymentSvc.RefundOrder(&models.Order{}); !errors.Is(err, ErrRefundFailed) {
		t.Fatalf("expected ErrRefundFailed, got %v", err)
	}
}
