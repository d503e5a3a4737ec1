package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/queue"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"gorm.io/gorm"
)

// RefundFunc attempts a provider refund for the order. Used by Cancel so
// the payment integration stays outside this service.
type RefundFunc func(order *models.Order) error

// FulfillmentOptions tune the delivery window and download limits.
type FulfillmentOptions struct {
	DeliveryExpireDays int
	GrantMaxDownloads  int
}

func (o FulfillmentOptions) expireDays() int {
	if o.DeliveryExpireDays > 0 {
		return o.DeliveryExpireDays
	}
	return constants.DeliveryExpiryDays
}

func (o FulfillmentOptions) maxDownloads() int {
	if o.GrantMaxDownloads > 0 {
		return o.GrantMaxDownloads
	}
	return constants.DefaultGrantMaxDownloads
}

// FulfillmentService turns paid orders into delivered files. All order
// status mutations flow through here so the history-append and grant
// idempotency invariants hold on every path.
type FulfillmentService struct {
	orders   repository.OrderRepository
	grants   repository.OrderDesignFileRepository
	resolver *DeliveryResolver
	tasks    *queue.Client
	opts     FulfillmentOptions
}

// NewFulfillmentService creates a fulfillment service.
func NewFulfillmentService(
	orders repository.OrderRepository,
	grants repository.OrderDesignFileRepository,
	resolver *DeliveryResolver,
	tasks *queue.Client,
	opts FulfillmentOptions,
) *FulfillmentService {
	return &FulfillmentService{
		orders:   orders,
		grants:   grants,
		resolver: resolver,
		tasks:    tasks,
		opts:     opts,
	}
}

// stagedItem pairs an order item with its staged resolution.
type stagedItem struct {
	item       *models.OrderItem
	resolution Resolution
}

// ProcessDelivery resolves every pending item of a settled order and
// advances the order accordingly. Re-running it on an already-completed
// order is a no-op, and grants are never duplicated.
func (s *FulfillmentService) ProcessDelivery(orderID uint, actor string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCompleted {
		return order, nil
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order is cancelled", ErrOrderStateConflict)
	}
	if !PaymentIsSettled(order.PaymentStatus) {
		return nil, fmt.Errorf("%w: payment not settled", ErrOrderStateConflict)
	}

	// Resolution is staged before the transaction; it only reads catalog
	// data.
	var (
		staged     []stagedItem
		customWork bool
	)
	for i := range order.Items {
		item := &order.Items[i]
		if item.DeliveryStatus != constants.ItemDeliveryPending {
			if item.DeliveryStatus == constants.ItemDeliveryAwaitingCustom {
				customWork = true
			}
			continue
		}
		resolution, err := s.resolver.Resolve(item)
		if err != nil {
			return nil, err
		}
		if !resolution.AutoDeliverable() {
			customWork = true
		}
		staged = append(staged, stagedItem{item: item, resolution: resolution})
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, st := range staged {
			updates := map[string]interface{}{}
			if st.resolution.AutoDeliverable() {
				updates["delivery_status"] = constants.ItemDeliveryAutoDelivered
				updates["delivered_at"] = now
			} else {
				updates["delivery_status"] = constants.ItemDeliveryAwaitingCustom
			}
			if st.resolution.Note != "" {
				updates["delivery_notes"] = st.resolution.Note
			}
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", st.item.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if customWork {
			// Auto-delivered items get their grants now; manual completion
			// later only adds the custom files.
			var autoFiles []models.DesignFile
			for _, st := range staged {
				if st.resolution.AutoDeliverable() {
					autoFiles = append(autoFiles, st.resolution.Files...)
				}
			}
			if err := s.ensureGrantsInTx(tx, order, autoFiles, now.AddDate(0, 0, s.opts.expireDays())); err != nil {
				return err
			}
			return s.holdForCustomWork(tx, order, actor)
		}
		var files []models.DesignFile
		for _, st := range staged {
			files = append(files, st.resolution.Files...)
		}
		return s.completeInTx(tx, order, files, actor, "all items auto delivered")
	})
	if err != nil {
		return nil, err
	}

	if customWork {
		s.tasks.EnqueueNotification(constants.NotificationEventCustomWorkPending, order.ID,
			fmt.Sprintf("order %s is waiting for custom design work", order.OrderNumber))
	} else {
		s.afterCompletion(order)
	}
	return s.orders.GetByID(order.ID)
}

// CompleteManually finishes an order that was held for custom work. The
// given design files are granted alongside anything already resolved,
// and every awaiting item is marked delivered.
func (s *FulfillmentService) CompleteManually(orderID uint, fileIDs []uint, note string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCompleted {
		return order, nil
	}
	if order.Status != constants.OrderStatusProcessing {
		return nil, fmt.Errorf("%w: order is %s", ErrOrderStateConflict, order.Status)
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND delivery_status IN ?", order.ID,
				[]string{constants.ItemDeliveryPending, constants.ItemDeliveryAwaitingCustom}).
			Updates(map[string]interface{}{
				"delivery_status": constants.ItemDeliveryManuallyDelivered,
				"delivered_at":    now,
			}).Error; err != nil {
			return err
		}

		var files []models.DesignFile
		if len(fileIDs) > 0 {
			if err := tx.Where("id IN ?", fileIDs).Find(&files).Error; err != nil {
				return err
			}
			if len(files) != len(fileIDs) {
				return ErrDesignFileNotFound
			}
		}
		historyNote := "custom work completed by admin"
		if strings.TrimSpace(note) != "" {
			historyNote = historyNote + ": " + strings.TrimSpace(note)
		}
		return s.completeInTx(tx, order, files, constants.HistoryActorAdmin, historyNote)
	})
	if err != nil {
		return nil, err
	}

	s.afterCompletion(order)
	return s.orders.GetByID(order.ID)
}

// Cancel cancels an order, attempting a provider refund first when the
// order was paid. A refund failure never blocks the cancellation; it is
// recorded in history for manual follow-up instead.
func (s *FulfillmentService) Cancel(orderID uint, reason string, refund RefundFunc) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return order, nil
	}
	if order.Status == constants.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: completed orders cannot be cancelled", ErrOrderStateConflict)
	}

	refunded := false
	refundFailed := false
	if order.PaymentStatus == constants.PaymentStatusPaid && refund != nil {
		if err := refund(order); err != nil {
			refundFailed = true
			logger.Errorw("order_refund_failed",
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", err)
		} else {
			refunded = true
		}
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		updates := map[string]interface{}{
			"status":       constants.OrderStatusCancelled,
			"cancelled_at": now,
		}
		if refunded {
			updates["payment_status"] = constants.PaymentStatusRefunded
		}
		if err := txOrders.UpdateFields(order.ID, updates); err != nil {
			return err
		}

		note := "order cancelled"
		if strings.TrimSpace(reason) != "" {
			note = note + ": " + strings.TrimSpace(reason)
		}
		switch {
		case refunded:
			note += " (payment refunded)"
		case refundFailed:
			note += " (refund failed, manual refund required)"
		}
		return txOrders.AppendHistory(&models.OrderHistory{
			OrderID: order.ID,
			Status:  constants.OrderStatusCancelled,
			Note:    note,
			Actor:   constants.HistoryActorAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	s.tasks.EnqueueOrderStatusEmail(order.ID, constants.OrderStatusCancelled)
	s.tasks.EnqueueNotification(constants.NotificationEventOrderCancelled, order.ID,
		fmt.Sprintf("order %s cancelled", order.OrderNumber))
	if refundFailed {
		s.tasks.EnqueueNotification(constants.NotificationEventManualRefundNeeded, order.ID,
			fmt.Sprintf("order %s cancelled but the provider refund failed", order.OrderNumber))
	}
	return s.orders.GetByID(order.ID)
}

// ResendCompletionEmail re-queues the completion email for an order.
func (s *FulfillmentService) ResendCompletionEmail(orderID uint) error {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCompleted {
		return fmt.Errorf("%w: order is not completed", ErrOrderStateConflict)
	}
	s.tasks.EnqueueOrderStatusEmail(order.ID, constants.OrderStatusCompleted)
	return nil
}

// completeInTx performs the completion transition inside a transaction:
// status change, delivery expiry, idempotent grant creation and the
// history entry. Grants created earlier (while the order was held for
// custom work) are refreshed to the completion delivery window.
func (s *FulfillmentService) completeInTx(tx *gorm.DB, order *models.Order, files []models.DesignFile, actor, note string) error {
	now := time.Now()
	expiresAt := now.AddDate(0, 0, s.opts.expireDays())

	txOrders := s.orders.WithTx(tx)

	if err := tx.Model(&models.OrderDesignFile{}).
		Where("order_id = ?", order.ID).
		Update("expires_at", expiresAt).Error; err != nil {
		return err
	}
	if err := s.ensureGrantsInTx(tx, order, files, expiresAt); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":              constants.OrderStatusCompleted,
		"completed_at":        now,
		"delivery_expires_at": expiresAt,
	}
	if order.CustomizationStatus == constants.CustomizationStatusPending {
		updates["customization_status"] = constants.CustomizationStatusCompleted
	}
	if err := txOrders.UpdateFields(order.ID, updates); err != nil {
		return err
	}
	return txOrders.AppendHistory(&models.OrderHistory{
		OrderID: order.ID,
		Status:  constants.OrderStatusCompleted,
		Note:    note,
		Actor:   actor,
	})
}

// ensureGrantsInTx creates a grant for each file the order does not
// already have one for. Existing grants are left alone, so re-running
// a delivery path never duplicates access.
func (s *FulfillmentService) ensureGrantsInTx(tx *gorm.DB, order *models.Order, files []models.DesignFile, expiresAt time.Time) error {
	txGrants := s.grants.WithTx(tx)
	existing, err := txGrants.ListByOrder(order.ID)
	if err != nil {
		return err
	}
	granted := map[uint]bool{}
	for _, grant := range existing {
		granted[grant.DesignFileID] = true
	}
	for _, file := range files {
		if granted[file.ID] {
			continue
		}
		granted[file.ID] = true
		token, err := newGrantToken()
		if err != nil {
			return err
		}
		grant := &models.OrderDesignFile{
			OrderID:      order.ID,
			DesignFileID: file.ID,
			Token:        token,
			MaxDownloads: s.opts.maxDownloads(),
			ExpiresAt:    &expiresAt,
		}
		if err := txGrants.Create(grant); err != nil {
			return err
		}
	}
	return nil
}

// holdForCustomWork flags the order for manual fulfillment.
func (s *FulfillmentService) holdForCustomWork(tx *gorm.DB, order *models.Order, actor string) error {
	txOrders := s.orders.WithTx(tx)
	if order.CustomizationStatus != constants.CustomizationStatusPending {
		if err := txOrders.UpdateFields(order.ID, map[string]interface{}{
			"customization_status": constants.CustomizationStatusPending,
		}); err != nil {
			return err
		}
	}
	return txOrders.AppendHistory(&models.OrderHistory{
		OrderID: order.ID,
		Status:  constants.OrderStatusProcessing,
		Note:    "one or more items need custom design work",
		Actor:   actor,
	})
}

// afterCompletion fires the post-completion side effects. They are
// queued; a notification failure never rolls back the completed state.
func (s *FulfillmentService) afterCompletion(order *models.Order) {
	s.tasks.EnqueueOrderStatusEmail(order.ID, constants.OrderStatusCompleted)
	s.tasks.EnqueueNotification(constants.NotificationEventOrderCompleted, order.ID,
		fmt.Sprintf("order %s completed and delivered", order.OrderNumber))
}

func newGrantToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate grant token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
