package router

import (
	"fmt"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/cache"
	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	adminhandlers "github.com/haitham-akram/prestige-designs-sub004/internal/http/handlers/admin"
	publichandlers "github.com/haitham-akram/prestige-designs-sub004/internal/http/handlers/public"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP surface.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	publicHandler := publichandlers.NewHandler(
		c.CatalogSvc, c.ReviewSvc, c.PromoSvc, c.OrderSvc,
		c.PaymentSvc, c.DownloadSvc, c.DesignFileSvc, c.Paypal)
	adminHandler := adminhandlers.NewHandler(
		c.AuthSvc, c.CatalogSvc, c.OrderSvc, c.FulfillmentSvc,
		c.PaymentSvc, c.DesignFileSvc, c.PromoSvc, c.ReviewSvc)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pd"
	}
	redisClient := cache.Client()
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxAttempts,
		Message:       "too many orders from this address, try again later",
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, try again later",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		api.GET("/categories", publicHandler.ListCategories)
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:slug", publicHandler.GetProduct)
		api.GET("/products/:slug/reviews", publicHandler.ListProductReviews)
		api.POST("/products/:slug/reviews", publicHandler.SubmitReview)

		api.POST("/promo/validate", publicHandler.ValidatePromo)

		api.POST("/orders",
			RateLimitMiddleware(redisClient, orderRule, KeyByIPAndJSONField("customer_email")),
			publicHandler.CreateOrder)
		api.GET("/orders/:orderNumber", publicHandler.GetOrder)
		api.POST("/orders/:id/complete-free", publicHandler.CompleteFreeOrder)
		api.POST("/orders/:id/payment", publicHandler.CreatePayment)
		api.POST("/orders/:id/payment/capture", publicHandler.CapturePayment)

		api.POST("/payment/webhook", publicHandler.PaymentWebhook)

		api.GET("/design-files/:token/download", publicHandler.DownloadDesignFile)
		api.GET("/design-files/:token/stream", publicHandler.StreamDesignFile)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login",
			RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")),
			adminHandler.Login)

		authed := admin.Group("")
		authed.Use(AdminJWTMiddleware(c.AuthSvc, c.AdminRepo))
		{
			authed.GET("/orders", adminHandler.ListOrders)
			authed.GET("/orders/:id", adminHandler.GetOrder)
			authed.POST("/orders/:id/complete", adminHandler.CompleteOrder)
			authed.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			authed.POST("/orders/:id/resend-email", adminHandler.ResendOrderEmail)
			authed.POST("/orders/:id/retry-delivery", adminHandler.RetryOrderDelivery)
			authed.POST("/orders/:id/design-files", adminHandler.UploadOrderDesignFile)

			authed.GET("/design-files", adminHandler.ListDesignFiles)
			authed.POST("/design-files", adminHandler.UploadDesignFile)
			authed.PUT("/design-files/:id/active", adminHandler.SetDesignFileActive)
			authed.DELETE("/design-files/:id", adminHandler.DeleteDesignFile)

			authed.GET("/products", adminHandler.ListAllProducts)
			authed.POST("/products", adminHandler.CreateProduct)
			authed.PUT("/products/:id", adminHandler.UpdateProduct)
			authed.DELETE("/products/:id", adminHandler.DeleteProduct)

			authed.POST("/categories", adminHandler.CreateCategory)
			authed.PUT("/categories/:id", adminHandler.UpdateCategory)
			authed.DELETE("/categories/:id", adminHandler.DeleteCategory)

			authed.GET("/promo-codes", adminHandler.ListPromoCodes)
			authed.POST("/promo-codes", adminHandler.CreatePromoCode)
			authed.PUT("/promo-codes/:id", adminHandler.UpdatePromoCode)
			authed.DELETE("/promo-codes/:id", adminHandler.DeletePromoCode)

			authed.GET("/reviews", adminHandler.ListReviews)
			authed.PUT("/reviews/:id/moderate", adminHandler.ModerateReview)
			authed.DELETE("/reviews/:id", adminHandler.DeleteReview)
		}
	}

	return r
}
