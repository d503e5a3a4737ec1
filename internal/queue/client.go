package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"

	"github.com/hibiken/asynq"
)

// Client wraps the asynq producer. A nil Client drops tasks with a log
// line, which keeps callers simple when the queue is disabled.
type Client struct {
	inner *asynq.Client
}

// RedisOpt builds the asynq redis connection options.
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient creates a task producer, or nil when the queue is disabled.
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}
}

// Close releases the producer connection.
func (c *Client) Close() {
	if c != nil && c.inner != nil {
		_ = c.inner.Close()
	}
}

// EnqueueOrderStatusEmail schedules a status email send.
func (c *Client) EnqueueOrderStatusEmail(orderID uint, status string) {
	c.enqueue(constants.TaskOrderStatusEmail, OrderStatusEmailPayload{OrderID: orderID, Status: status},
		asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
}

// EnqueueOrderDeliver schedules delivery resolution for a paid order.
func (c *Client) EnqueueOrderDeliver(orderID uint) {
	c.enqueue(constants.TaskOrderDeliver, OrderDeliverPayload{OrderID: orderID},
		asynq.MaxRetry(3), asynq.Timeout(60*time.Second))
}

// EnqueueNotification schedules an operational notification.
func (c *Client) EnqueueNotification(event string, orderID uint, message string) {
	c.enqueue(constants.TaskNotificationDispatch, NotificationDispatchPayload{Event: event, OrderID: orderID, Message: message},
		asynq.MaxRetry(3), asynq.Timeout(15*time.Second))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Errorw("task_payload_marshal_failed", "task", taskType, "error", err)
		return
	}
	if c == nil || c.inner == nil {
		logger.Warnw("queue_disabled_task_dropped", "task", taskType)
		return
	}
	opts = append(opts, asynq.Queue(constants.QueueDefault))
	info, err := c.inner.Enqueue(asynq.NewTask(taskType, data), opts...)
	if err != nil {
		logger.Errorw("task_enqueue_failed", "task", taskType, "error", err)
		return
	}
	logger.Infow("task_enqueued", "task", taskType, "task_id", info.ID, "queue", info.Queue)
}

// BuildServerConfig builds the consumer-side asynq config.
func BuildServerConfig(cfg *config.QueueConfig) asynq.Config {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{constants.QueueDefault: 10}
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      asynqLogger{},
	}
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
