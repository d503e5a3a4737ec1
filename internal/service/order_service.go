package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrderItemInput is one cart line at checkout.
type CreateOrderItemInput struct {
	ProductID      uint                  `json:"product_id" binding:"required"`
	Quantity       int                   `json:"quantity" binding:"required,min=1"`
	Customizations models.Customizations `json:"customizations"`
}

// CreateOrderInput is the checkout request after boundary validation.
type CreateOrderInput struct {
	UserID        uint
	CustomerName  string
	CustomerEmail string
	ClientIP      string
	PromoCode     string
	Items         []CreateOrderItemInput
}

// OrderService creates and reads orders.
type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	promoSvc    *PromoService
	fulfillment *FulfillmentService
}

// NewOrderService creates an order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	promoSvc *PromoService,
	fulfillment *FulfillmentService,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		promoSvc:    promoSvc,
		fulfillment: fulfillment,
	}
}

// CreateOrder builds an order from a cart snapshot. Product name, slug
// and price are copied onto the items so later catalog edits never alter
// the historical order. Free orders skip payment entirely and run the
// delivery pipeline immediately.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if email == "" {
		return nil, fmt.Errorf("%w: customer email required", ErrOrderInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmptyCart
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	promoLines := make([]PromoLine, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrOrderInvalidInput)
		}
		product, err := s.products.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}

		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductSlug:       product.Slug,
			Quantity:          line.Quantity,
			OriginalPrice:     product.Price,
			UnitPrice:         product.Price,
			TotalPrice:        models.NewMoneyFromDecimal(lineTotal),
			HasCustomizations: product.EnableCustomizations && !line.Customizations.IsEmpty() && RequiresCustomWork(false, line.Customizations),
			Customizations:    line.Customizations,
			DeliveryStatus:    constants.ItemDeliveryPending,
		})
		promoLines = append(promoLines, PromoLine{ProductID: product.ID, LineTotal: lineTotal})
	}

	discount := decimal.Zero
	var promoID *uint
	promoCode := ""
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		quote, err := s.promoSvc.Quote(code, promoLines)
		if err != nil {
			return nil, err
		}
		discount = quote.TotalDiscount
		id := quote.Promo.ID
		promoID = &id
		promoCode = quote.Promo.Code
		for i := range items {
			items[i].PromoDiscount = models.NewMoneyFromDecimal(quote.LineDiscounts[i])
		}
	}

	total := subtotal.Sub(discount)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}

	orderNumber, err := s.generateOrderNumber()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:   orderNumber,
		UserID:        input.UserID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: email,
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      constants.SiteCurrencyDefault,
		Subtotal:      models.NewMoneyFromDecimal(subtotal),
		PromoDiscount: models.NewMoneyFromDecimal(discount),
		TotalPrice:    models.NewMoneyFromDecimal(total),
		PromoCodeID:   promoID,
		PromoCode:     promoCode,
		ClientIP:      input.ClientIP,
	}
	free := total.IsZero()
	if free {
		order.Status = constants.OrderStatusProcessing
		order.PaymentStatus = constants.PaymentStatusFree
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orders.WithTx(tx)
		if err := txOrders.Create(order, items); err != nil {
			return err
		}
		note := "order created"
		if free {
			note = "order created, zero total, payment skipped"
		}
		if err := txOrders.AppendHistory(&models.OrderHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    note,
			Actor:   constants.HistoryActorCustomer,
		}); err != nil {
			return err
		}
		if promoID != nil {
			if err := s.promoSvc.ConsumeUsage(*promoID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_number", order.OrderNumber,
		"total", order.TotalPrice.String(),
		"items", len(items),
		"free", free)

	if free {
		if _, err := s.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorSystem); err != nil {
			// The order exists and is processing; delivery can be retried.
			logger.Errorw("free_order_delivery_failed", "order_id", order.ID, "error", err)
		}
	}
	return s.orders.GetByID(order.ID)
}

// CompleteFreeOrder is the customer-triggered completion path for
// zero-cost orders. The caller must present the order's customer email;
// non-zero orders are rejected.
func (s *OrderService) CompleteFreeOrder(orderID uint, email string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || !matchesCustomerEmail(order, email) {
		return nil, ErrOrderNotFound
	}
	if !order.TotalPrice.IsZero() {
		return nil, ErrOrderNotFree
	}
	if order.Status == constants.OrderStatusCompleted {
		return order, nil
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStateConflict
	}
	if order.PaymentStatus != constants.PaymentStatusFree {
		if err := s.orders.UpdateFields(order.ID, map[string]interface{}{
			"payment_status": constants.PaymentStatusFree,
			"status":         constants.OrderStatusProcessing,
		}); err != nil {
			return nil, err
		}
	}
	return s.fulfillment.ProcessDelivery(order.ID, constants.HistoryActorCustomer)
}

// GetByID loads one order.
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByNumberForCustomer loads one order by its order number. The order
// number alone is guessable, and the payload carries live download
// grants, so the customer email has to match too. A mismatch is
// indistinguishable from a missing order.
func (s *OrderService) GetByNumberForCustomer(orderNumber, email string) (*models.Order, error) {
	order, err := s.orders.GetByOrderNumber(strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if order == nil || !matchesCustomerEmail(order, email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func matchesCustomerEmail(order *models.Order, email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), order.CustomerEmail)
}

// List returns a filtered order page.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orders.List(filter)
}

// generateOrderNumber builds a human-readable unique order number,
// retrying on the rare collision.
func (s *OrderService) generateOrderNumber() (string, error) {
	for attempt := 0; attempt < constants.OrderNumberGenerateMaxRetry; attempt++ {
		candidate := fmt.Sprintf("%s%s%06d",
			constants.OrderNumberPrefix,
			time.Now().Format("20060102150405"),
			rand.Intn(1000000))
		exists, err := s.orders.ExistsOrderNumber(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrOrderNumberExhausted
}
