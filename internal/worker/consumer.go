package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/queue"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks: status emails, delivery retries and
// chat notifications.
type Consumer struct {
	orders        repository.OrderRepository
	grants        repository.OrderDesignFileRepository
	fulfillment   *service.FulfillmentService
	emails        *service.EmailService
	notifications *service.NotificationService
}

// NewConsumer creates the task consumer.
func NewConsumer(
	orders repository.OrderRepository,
	grants repository.OrderDesignFileRepository,
	fulfillment *service.FulfillmentService,
	emails *service.EmailService,
	notifications *service.NotificationService,
) *Consumer {
	return &Consumer{
		orders:        orders,
		grants:        grants,
		fulfillment:   fulfillment,
		emails:        emails,
		notifications: notifications,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(constants.TaskOrderDeliver, c.handleOrderDeliver)
	mux.HandleFunc(constants.TaskNotificationDispatch, c.handleNotificationDispatch)
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	order, err := c.orders.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("status_email_order_missing", "order_id", payload.OrderID)
		return nil
	}
	grants, err := c.grants.ListByOrder(order.ID)
	if err != nil {
		return err
	}
	if err := c.emails.SendOrderStatusEmail(order, grants); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) || errors.Is(err, service.ErrEmailNotConfigured) {
			logger.Warnw("status_email_skipped", "order_id", order.ID, "reason", err.Error())
			return nil
		}
		if errors.Is(err, service.ErrInvalidEmail) {
			logger.Warnw("status_email_bad_recipient", "order_id", order.ID)
			return fmt.Errorf("bad recipient: %w", asynq.SkipRetry)
		}
		return err
	}
	logger.Infow("status_email_sent", "order_id", order.ID, "status", payload.Status)
	return nil
}

func (c *Consumer) handleOrderDeliver(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if _, err := c.fulfillment.ProcessDelivery(payload.OrderID, constants.HistoryActorSystem); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrOrderStateConflict) {
			logger.Warnw("delivery_retry_skipped", "order_id", payload.OrderID, "reason", err.Error())
			return nil
		}
		return err
	}
	return nil
}

func (c *Consumer) handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	c.notifications.Notify(payload.Event, payload.Message)
	return nil
}
