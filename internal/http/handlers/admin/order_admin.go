package admin

import (
	"strconv"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders returns a filtered order page.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.OrderListFilter{
		Page:                page,
		PageSize:            pageSize,
		Status:              c.Query("status"),
		PaymentStatus:       c.Query("payment_status"),
		CustomizationStatus: c.Query("customization_status"),
		OrderNumber:         c.Query("order_number"),
		CustomerEmail:       c.Query("customer_email"),
	}
	orders, total, err := h.orders.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder returns one order with items, history and grants.
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type completeOrderRequest struct {
	FileIDs []uint `json:"file_ids"`
	Note    string `json:"note"`
}

// CompleteOrder finishes an order held for custom work, granting the
// given design files.
func (h *Handler) CompleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req completeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid completion request")
		return
	}
	order, err := h.fulfillment.CompleteManually(id, req.FileIDs, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order, refunding through the provider when the
// order was paid. A refund failure never blocks the cancellation.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req cancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.fulfillment.Cancel(id, req.Reason, h.payments.RefundOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ResendOrderEmail re-queues the completion email.
func (h *Handler) ResendOrderEmail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	if err := h.fulfillment.ResendCompletionEmail(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "email queued", nil)
}

// RetryOrderDelivery re-runs the delivery pipeline for a settled order.
func (h *Handler) RetryOrderDelivery(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.fulfillment.ProcessDelivery(id, constants.HistoryActorAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
