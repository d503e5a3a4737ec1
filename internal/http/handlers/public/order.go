package public

import (
	"strconv"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CustomerName  string                           `json:"customer_name"`
	CustomerEmail string                           `json:"customer_email" binding:"required,email"`
	PromoCode     string                           `json:"promo_code"`
	Items         []service.CreateOrderItemInput   `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder creates an order from a cart snapshot.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "بيانات الطلب غير صحيحة")
		return
	}
	order, err := h.orders.CreateOrder(service.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ClientIP:      c.ClientIP(),
		PromoCode:     req.PromoCode,
		Items:         req.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// GetOrder returns one order by its order number. The customer email is
// required alongside the number so guessed order numbers do not expose
// download links.
func (h *Handler) GetOrder(c *gin.Context) {
	email := c.Query("email")
	if strings.TrimSpace(email) == "" {
		response.BadRequest(c, "البريد الإلكتروني مطلوب")
		return
	}
	order, err := h.orders.GetByNumberForCustomer(c.Param("orderNumber"), email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type completeFreeOrderRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

// CompleteFreeOrder is the customer-triggered completion for zero-cost
// orders.
func (h *Handler) CompleteFreeOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "معرّف الطلب غير صحيح")
		return
	}
	var req completeFreeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "البريد الإلكتروني مطلوب")
		return
	}
	order, err := h.orders.CompleteFreeOrder(uint(id), req.CustomerEmail)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
