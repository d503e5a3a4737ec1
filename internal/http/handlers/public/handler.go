package public

import (
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"
)

// Handler bundles the storefront endpoints.
type Handler struct {
	catalog     *service.CatalogService
	reviews     *service.ReviewService
	promos      *service.PromoService
	orders      *service.OrderService
	payments    *service.PaymentService
	downloads   *service.DownloadService
	designFiles *service.DesignFileService
	provider    *paypal.Config
}

// NewHandler creates the public handler.
func NewHandler(
	catalog *service.CatalogService,
	reviews *service.ReviewService,
	promos *service.PromoService,
	orders *service.OrderService,
	payments *service.PaymentService,
	downloads *service.DownloadService,
	designFiles *service.DesignFileService,
	provider *paypal.Config,
) *Handler {
	return &Handler{
		catalog:     catalog,
		reviews:     reviews,
		promos:      promos,
		orders:      orders,
		payments:    payments,
		downloads:   downloads,
		designFiles: designFiles,
		provider:    provider,
	}
}
