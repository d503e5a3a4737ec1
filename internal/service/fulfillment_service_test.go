package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"

	"github.com/shopspring/decimal"
)

func (e *orderFlowEnv) createPaidOrder(t *testing.T, items []CreateOrderItemInput) *models.Order {
	t.Helper()
	order, err := e.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "buyer@example.com",
		Items:         items,
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if err := e.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"status":         constants.OrderStatusProcessing,
	}).Error; err != nil {
		t.Fatalf("mark order paid failed: %v", err)
	}
	reloaded, err := e.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return reloaded
}

func TestProcessDeliveryAutoCompletesAndIsIdempotent(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_idempotent")
	product := env.createProduct(t, "auto-pack", decimal.NewFromInt(10), false)
	env.createFile(t, product.ID, "pack.zip", "")
	order := env.createPaidOrder(t, []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}})

	first, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem)
	if err != nil {
		t.Fatalf("first delivery error: %v", err)
	}
	if first.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", first.Status)
	}
	if first.DeliveryExpiresAt == nil {
		t.Fatalf("expected delivery expiry to be set")
	}

	second, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem)
	if err != nil {
		t.Fatalf("second delivery error: %v", err)
	}
	if second.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed on re-run, got %s", second.Status)
	}

	var grantCount int64
	env.db.Model(&models.OrderDesignFile{}).Where("order_id = ?", order.ID).Count(&grantCount)
	if grantCount != 1 {
		t.Fatalf("re-running delivery must not duplicate grants, got %d", grantCount)
	}
}

func TestProcessDeliveryHoldsCustomWork(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_custom_hold")
	product := env.createProduct(t, "custom-pack", decimal.NewFromInt(10), true)
	env.createFile(t, product.ID, "pack.zip", "")
	order := env.createPaidOrder(t, []CreateOrderItemInput{{
		ProductID: product.ID,
		Quantity:  1,
		Customizations: models.Customizations{
			Notes: "add my channel name",
		},
	}})

	delivered, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem)
	if err != nil {
		t.Fatalf("delivery error: %v", err)
	}
	if delivered.Status != constants.OrderStatusProcessing {
		t.Fatalf("held order must stay processing, got %s", delivered.Status)
	}
	if delivered.CustomizationStatus != constants.CustomizationStatusPending {
		t.Fatalf("expected customization pending, got %s", delivered.CustomizationStatus)
	}
	if len(delivered.Items) != 1 || delivered.Items[0].DeliveryStatus != constants.ItemDeliveryAwaitingCustom {
		t.Fatalf("expected awaiting item, got %+v", delivered.Items)
	}
	var grantCount int64
	env.db.Model(&models.OrderDesignFile{}).Where("order_id = ?", order.ID).Count(&grantCount)
	if grantCount != 0 {
		t.Fatalf("held orders must not receive grants, got %d", grantCount)
	}
}

func TestProcessDeliveryMixedCartHoldsWholeOrder(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_mixed")
	plain := env.createProduct(t, "plain", decimal.NewFromInt(10), false)
	plainFile := env.createFile(t, plain.ID, "plain.zip", "")
	custom := env.createProduct(t, "custom", decimal.NewFromInt(10), true)
	order := env.createPaidOrder(t, []CreateOrderItemInput{
		{ProductID: plain.ID, Quantity: 1},
		{ProductID: custom.ID, Quantity: 1, Customizations: models.Customizations{Notes: "new colors"}},
	})

	delivered, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem)
	if err != nil {
		t.Fatalf("delivery error: %v", err)
	}
	if delivered.Status != constants.OrderStatusProcessing {
		t.Fatalf("order with one held item must stay processing, got %s", delivered.Status)
	}
	statuses := map[string]string{}
	for _, item := range delivered.Items {
		statuses[item.ProductSlug] = item.DeliveryStatus
	}
	if statuses["plain"] != constants.ItemDeliveryAutoDelivered {
		t.Fatalf("plain item must auto deliver, got %s", statuses["plain"])
	}
	if statuses["custom"] != constants.ItemDeliveryAwaitingCustom {
		t.Fatalf("custom item must await work, got %s", statuses["custom"])
	}

	// The auto-delivered item's files are granted during the hold, not
	// deferred to manual completion.
	var grants []models.OrderDesignFile
	if err := env.db.Where("order_id = ?", order.ID).Find(&grants).Error; err != nil {
		t.Fatalf("load grants failed: %v", err)
	}
	if len(grants) != 1 || grants[0].DesignFileID != plainFile.ID {
		t.Fatalf("expected a grant on the auto-delivered file, got %+v", grants)
	}
}

func TestCompleteManuallyKeepsAutoDeliveredGrants(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_mixed_manual")
	plain := env.createProduct(t, "plain", decimal.NewFromInt(10), false)
	plainFile := env.createFile(t, plain.ID, "plain.zip", "")
	custom := env.createProduct(t, "custom", decimal.NewFromInt(10), true)
	customFile := env.createFile(t, custom.ID, "custom-final.zip", "")
	order := env.createPaidOrder(t, []CreateOrderItemInput{
		{ProductID: plain.ID, Quantity: 1},
		{ProductID: custom.ID, Quantity: 1, Customizations: models.Customizations{Notes: "new colors"}},
	})
	if _, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); err != nil {
		t.Fatalf("hold delivery error: %v", err)
	}

	completed, err := env.fulfillment.CompleteManually(order.ID, []uint{customFile.ID}, "")
	if err != nil {
		t.Fatalf("complete manually error: %v", err)
	}
	if completed.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}

	var grants []models.OrderDesignFile
	if err := env.db.Where("order_id = ?", order.ID).Order("design_file_id asc").Find(&grants).Error; err != nil {
		t.Fatalf("load grants failed: %v", err)
	}
	byFile := map[uint]bool{}
	for _, grant := range grants {
		byFile[grant.DesignFileID] = true
	}
	if len(grants) != 2 || !byFile[plainFile.ID] || !byFile[customFile.ID] {
		t.Fatalf("expected grants on both the auto and the custom file, got %+v", grants)
	}
	if completed.DeliveryExpiresAt == nil {
		t.Fatalf("expected delivery expiry to be set")
	}
	for _, grant := range grants {
		if grant.ExpiresAt == nil || !grant.ExpiresAt.Equal(*completed.DeliveryExpiresAt) {
			t.Fatalf("all grants must share the completion delivery window, got %+v", grant.ExpiresAt)
		}
	}
}

func TestProcessDeliveryRejectsUnsettledPayment(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_unsettled")
	product := env.createProduct(t, "pending-pay", decimal.NewFromInt(10), false)
	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if _, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); !errors.Is(err, ErrOrderStateConflict) {
		t.Fatalf("expected ErrOrderStateConflict, got %v", err)
	}
}

func TestCompleteManuallyGrantsFilesAndCompletes(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_manual")
	product := env.createProduct(t, "manual-pack", decimal.NewFromInt(10), true)
	deliverable := env.createFile(t, product.ID, "final-design.zip", "")
	order := env.createPaidOrder(t, []CreateOrderItemInput{{
		ProductID:      product.ID,
		Quantity:       1,
		Customizations: models.Customizations{Notes: "custom work"},
	}})
	if _, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); err != nil {
		t.Fatalf("hold delivery error: %v", err)
	}

	completed, err := env.fulfillment.CompleteManually(order.ID, []uint{deliverable.ID}, "sent v2 with requested edits")
	if err != nil {
		t.Fatalf("complete manually error: %v", err)
	}
	if completed.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.CustomizationStatus != constants.CustomizationStatusCompleted {
		t.Fatalf("expected customization completed, got %s", completed.CustomizationStatus)
	}
	if len(completed.Items) != 1 || completed.Items[0].DeliveryStatus != constants.ItemDeliveryManuallyDelivered {
		t.Fatalf("expected delivered item, got %+v", completed.Items)
	}
	var grants []models.OrderDesignFile
	if err := env.db.Where("order_id = ?", order.ID).Find(&grants).Error; err != nil {
		t.Fatalf("load grants failed: %v", err)
	}
	if len(grants) != 1 || grants[0].DesignFileID != deliverable.ID {
		t.Fatalf("expected one grant on the delivered file, got %+v", grants)
	}
	if grants[0].Token == "" {
		t.Fatalf("grant token must be set")
	}

	// Completing twice is a no-op.
	again, err := env.fulfillment.CompleteManually(order.ID, nil, "")
	if err != nil {
		t.Fatalf("second completion error: %v", err)
	}
	if again.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", again.Status)
	}
}

func TestCompleteManuallyUnknownFile(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_manual_badfile")
	product := env.createProduct(t, "manual-bad", decimal.NewFromInt(10), true)
	order := env.createPaidOrder(t, []CreateOrderItemInput{{
		ProductID:      product.ID,
		Quantity:       1,
		Customizations: models.Customizations{Notes: "custom"},
	}})
	if _, err := env.fulfillment.CompleteManually(order.ID, []uint{424242}, ""); !errors.Is(err, ErrDesignFileNotFound) {
		t.Fatalf("expected ErrDesignFileNotFound, got %v", err)
	}
}

func TestCancelRefundFailureNeverBlocksCancellation(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_cancel_refund_fail")
	product := env.createProduct(t, "cancel-pack", decimal.NewFromInt(10), false)
	order := env.createPaidOrder(t, []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}})

	cancelled, err := env.fulfillment.Cancel(order.ID, "customer request", func(*models.Order) error {
		return errors.New("provider unavailable")
	})
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("failed refund must leave payment paid, got %s", cancelled.PaymentStatus)
	}

	var history []models.OrderHistory
	if err := env.db.Where("order_id = ?", order.ID).Order("id desc").Find(&history).Error; err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(history) == 0 || !strings.Contains(history[0].Note, "refund failed") {
		t.Fatalf("expected a manual-refund note, got %+v", history)
	}
}

func TestCancelWithSuccessfulRefund(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_cancel_refund_ok")
	product := env.createProduct(t, "refund-pack", decimal.NewFromInt(10), false)
	order := env.createPaidOrder(t, []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}})

	cancelled, err := env.fulfillment.Cancel(order.ID, "out of stock assets", func(*models.Order) error {
		return nil
	})
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if cancelled.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", cancelled.PaymentStatus)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	// Cancelling again is a no-op.
	again, err := env.fulfillment.Cancel(order.ID, "", nil)
	if err != nil {
		t.Fatalf("second cancel error: %v", err)
	}
	if again.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", again.Status)
	}
}

func TestCancelRejectsCompletedOrder(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_cancel_completed")
	product := env.createProduct(t, "done-pack", decimal.NewFromInt(10), false)
	env.createFile(t, product.ID, "pack.zip", "")
	order := env.createPaidOrder(t, []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}})
	if _, err := env.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); err != nil {
		t.Fatalf("delivery error: %v", err)
	}
	if _, err := env.fulfillment.Cancel(order.ID, "", nil); !errors.Is(err, ErrOrderStateConflict) {
		t.Fatalf("expected ErrOrderStateConflict, got %v", err)
	}
}

func TestResendCompletionEmailRequiresCompletedOrder(t *testing.T) {
	env := setupOrderFlowTest(t, "fulfillment_resend")
	product := env.createProduct(t, "resend-pack", decimal.NewFromInt(10), false)
	order := env.createPaidOrder(t, []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}})
	if err := env.fulfillment.ResendCompletionEmail(order.ID); !errors.Is(err, ErrOrderStateConflict) {
		t.Fatalf("expected ErrOrderStateConflict, got %v", err)
	}
}
