package provider

import (
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"
	"github.com/haitham-akram/prestige-designs-sub004/internal/queue"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"
	"github.com/haitham-akram/prestige-designs-sub004/internal/storage"
)

// Container wires repositories and services once at startup.
type Container struct {
	OrderRepo      repository.OrderRepository
	ProductRepo    repository.ProductRepository
	CategoryRepo   repository.CategoryRepository
	DesignFileRepo repository.DesignFileRepository
	GrantRepo      repository.OrderDesignFileRepository
	PromoRepo      repository.PromoCodeRepository
	ReviewRepo     repository.ReviewRepository
	AdminRepo      repository.AdminRepository
	UserRepo       repository.UserRepository

	Store  *storage.LocalStore
	Tasks  *queue.Client
	Paypal *paypal.Config

	PromoSvc        *service.PromoService
	CatalogSvc      *service.CatalogService
	ReviewSvc       *service.ReviewService
	AuthSvc         *service.AuthService
	ResolverSvc     *service.DeliveryResolver
	FulfillmentSvc  *service.FulfillmentService
	OrderSvc        *service.OrderService
	PaymentSvc      *service.PaymentService
	DownloadSvc     *service.DownloadService
	DesignFileSvc   *service.DesignFileService
	EmailSvc        *service.EmailService
	NotificationSvc *service.NotificationService
}

// NewContainer builds the dependency graph.
func NewContainer(cfg *config.Config) (*Container, error) {
	store, err := storage.NewLocalStore(cfg.Storage.RootDir, cfg.Storage.MaxSize, cfg.Storage.UploadRetry)
	if err != nil {
		return nil, err
	}

	c := &Container{
		OrderRepo:      repository.NewOrderRepository(models.DB),
		ProductRepo:    repository.NewProductRepository(models.DB),
		CategoryRepo:   repository.NewCategoryRepository(models.DB),
		DesignFileRepo: repository.NewDesignFileRepository(models.DB),
		GrantRepo:      repository.NewOrderDesignFileRepository(models.DB),
		PromoRepo:      repository.NewPromoCodeRepository(models.DB),
		ReviewRepo:     repository.NewReviewRepository(models.DB),
		AdminRepo:      repository.NewAdminRepository(models.DB),
		UserRepo:       repository.NewUserRepository(models.DB),
		Store:          store,
		Tasks:          queue.NewClient(&cfg.Queue),
		Paypal: &paypal.Config{
			BaseURL:       cfg.Paypal.BaseURL,
			ClientID:      cfg.Paypal.ClientID,
			ClientSecret:  cfg.Paypal.ClientSecret,
			WebhookID:     cfg.Paypal.WebhookID,
			WebhookSecret: cfg.Paypal.WebhookSecret,
			Timeout:       time.Duration(cfg.Paypal.TimeoutMS) * time.Millisecond,
		},
	}

	c.PromoSvc = service.NewPromoService(c.PromoRepo)
	c.CatalogSvc = service.NewCatalogService(c.ProductRepo, c.CategoryRepo)
	c.ReviewSvc = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.AuthSvc = service.NewAuthService(c.AdminRepo, &cfg.JWT)
	c.ResolverSvc = service.NewDeliveryResolver(c.ProductRepo, c.DesignFileRepo)
	c.FulfillmentSvc = service.NewFulfillmentService(c.OrderRepo, c.GrantRepo, c.ResolverSvc, c.Tasks, service.FulfillmentOptions{
		DeliveryExpireDays: cfg.Order.DeliveryExpireDays,
		GrantMaxDownloads:  cfg.Order.GrantMaxDownloads,
	})
	c.OrderSvc = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.PromoSvc, c.FulfillmentSvc)
	c.PaymentSvc = service.NewPaymentService(c.OrderRepo, c.FulfillmentSvc, c.Tasks, c.Paypal, cfg.Email.BaseURL)
	c.DownloadSvc = service.NewDownloadService(c.GrantRepo, c.DesignFileRepo)
	c.DesignFileSvc = service.NewDesignFileService(c.DesignFileRepo, c.ProductRepo, store)
	c.EmailSvc = service.NewEmailService(&cfg.Email)
	c.NotificationSvc = service.NewNotificationService(&cfg.Discord)
	return c, nil
}

// Close releases the container's external connections.
func (c *Container) Close() {
	if c.Tasks != nil {
		c.Tasks.Close()
	}
}
