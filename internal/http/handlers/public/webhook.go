package public

import (
	"io"
	"net/http"

	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook receives provider events. A bad signature is rejected
// with 401; any internal processing failure is still acknowledged with
// 200 so the provider stops retrying, and reconciliation is recovered
// from logs and history instead.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		logger.Errorw("webhook_body_read_failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	headers := paypal.ReadSignatureHeaders(c.Request.Header)
	if err := paypal.VerifyWebhookSignature(h.provider, headers, body); err != nil {
		logger.Warnw("webhook_signature_rejected",
			"transmission_id", headers.TransmissionID,
			"error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := paypal.ParseWebhookEvent(body)
	if err != nil {
		logger.Warnw("webhook_payload_invalid", "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.payments.HandleWebhook(event); err != nil {
		logger.Errorw("webhook_processing_failed",
			"event_type", event.EventType,
			"event_id", event.ID,
			"error", err)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
