package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
)

// NotificationService posts fire-and-forget messages to the team chat
// webhook. Failures are logged and swallowed; a lost notification never
// affects order state.
type NotificationService struct {
	cfg    *config.DiscordConfig
	client *http.Client
}

// NewNotificationService creates a notification service.
func NewNotificationService(cfg *config.DiscordConfig) *NotificationService {
	timeout := 5 * time.Second
	if cfg != nil && cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &NotificationService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts one event message to the configured channel.
func (s *NotificationService) Notify(event, message string) {
	if s.cfg == nil || !s.cfg.Enabled || s.cfg.WebhookURL == "" {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"content": fmt.Sprintf("[%s] %s", event, message),
	})
	if err != nil {
		logger.Errorw("notification_marshal_failed", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		logger.Errorw("notification_request_failed", "event", event, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warnw("notification_post_failed", "event", event, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Warnw("notification_rejected", "event", event, "status", resp.StatusCode)
		return
	}
	logger.Infow("notification_sent", "event", event)
}
