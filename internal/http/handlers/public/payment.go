package public

import (
	"strconv"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreatePayment registers the order with the payment provider and
// returns the approval link the storefront redirects to.
func (h *Handler) CreatePayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "معرّف الطلب غير صحيح")
		return
	}
	result, err := h.payments.CreateProviderOrder(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"provider_order_id": result.ProviderOrderID,
		"approve_url":       result.ApproveURL,
	})
}

// CapturePayment is the customer-return capture path after provider
// approval.
func (h *Handler) CapturePayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "معرّف الطلب غير صحيح")
		return
	}
	order, err := h.payments.CaptureProviderOrder(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
