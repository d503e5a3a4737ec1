package admin

import (
	"errors"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler bundles the admin panel endpoints.
type Handler struct {
	auth        *service.AuthService
	catalog     *service.CatalogService
	orders      *service.OrderService
	fulfillment *service.FulfillmentService
	payments    *service.PaymentService
	designFiles *service.DesignFileService
	promos      *service.PromoService
	reviews     *service.ReviewService
}

// NewHandler creates the admin handler.
func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	orders *service.OrderService,
	fulfillment *service.FulfillmentService,
	payments *service.PaymentService,
	designFiles *service.DesignFileService,
	promos *service.PromoService,
	reviews *service.ReviewService,
) *Handler {
	return &Handler{
		auth:        auth,
		catalog:     catalog,
		orders:      orders,
		fulfillment: fulfillment,
		payments:    payments,
		designFiles: designFiles,
		promos:      promos,
		reviews:     reviews,
	}
}

// respondServiceError maps service errors to admin API responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrPromoNotFound),
		errors.Is(err, service.ErrDesignFileNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrOrderStateConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrOrderInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid username or password")
	default:
		logger.Errorw("admin_api_internal_error", "path", c.FullPath(), "error", err)
		response.Internal(c, "internal error")
	}
}
