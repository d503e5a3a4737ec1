package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/payment/paypal"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderFlowEnv wires the services around one in-memory database. The
// package-level models.DB is pointed at the same database because the
// transactional flows open transactions through it.
type orderFlowEnv struct {
	db          *gorm.DB
	orders      *repository.GormOrderRepository
	products    *repository.GormProductRepository
	grants      *repository.GormOrderDesignFileRepository
	promoSvc    *PromoService
	fulfillment *FulfillmentService
	orderSvc    *OrderService
	paymentSvc  *PaymentService
}

func setupOrderFlowTest(t *testing.T, name string) *orderFlowEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.DesignFile{},
		&models.Order{}, &models.OrderItem{}, &models.OrderHistory{},
		&models.OrderDesignFile{}, &models.PromoCode{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	env := &orderFlowEnv{
		db:       db,
		orders:   repository.NewOrderRepository(db),
		products: repository.NewProductRepository(db),
		grants:   repository.NewOrderDesignFileRepository(db),
	}
	designFiles := repository.NewDesignFileRepository(db)
	env.promoSvc = NewPromoService(repository.NewPromoCodeRepository(db))
	resolver := NewDeliveryResolver(env.products, designFiles)
	env.fulfillment = NewFulfillmentService(env.orders, env.grants, resolver, nil, FulfillmentOptions{})
	env.orderSvc = NewOrderService(env.orders, env.products, env.promoSvc, env.fulfillment)
	env.paymentSvc = NewPaymentService(env.orders, env.fulfillment, nil, &paypal.Config{}, "https://example.test")
	return env
}

func (e *orderFlowEnv) createProduct(t *testing.T, slug string, price decimal.Decimal, customizable bool) *models.Product {
	t.Helper()
	category := models.Category{Slug: slug + "-cat", Name: "Cat"}
	if err := e.db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:           category.ID,
		Slug:                 slug,
		Name:                 strings.ReplaceAll(slug, "-", " "),
		Price:                models.NewMoneyFromDecimal(price),
		EnableCustomizations: customizable,
		IsActive:             true,
	}
	if err := e.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func (e *orderFlowEnv) createFile(t *testing.T, productID uint, name, hex string) *models.DesignFile {
	t.Helper()
	file := models.DesignFile{
		ProductID: productID,
		FileName:  name,
		FileURL:   "products/x/" + name,
		IsActive:  true,
	}
	if hex != "" {
		file.IsColorVariant = true
		file.ColorVariantHex = hex
	}
	if err := e.db.Create(&file).Error; err != nil {
		t.Fatalf("create design file failed: %v", err)
	}
	return &file
}

func TestCreateOrderSnapshotsAndTotals(t *testing.T) {
	env := setupOrderFlowTest(t, "order_create_totals")
	product := env.createProduct(t, "overlay", decimal.NewFromFloat(10.50), false)
	env.createFile(t, product.ID, "pack.zip", "")
	promo := models.PromoCode{
		Code:      "FIVE",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		ScopeType: constants.PromoScopeAll,
		IsActive:  true,
	}
	if err := env.db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerName:  "Haitham",
		CustomerEmail: "Buyer@Example.com",
		PromoCode:     "FIVE",
		Items: []CreateOrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}

	// PD + second-resolution timestamp + 6 random digits.
	if !strings.HasPrefix(order.OrderNumber, constants.OrderNumberPrefix) {
		t.Fatalf("unexpected order number: %s", order.OrderNumber)
	}
	digits := strings.TrimPrefix(order.OrderNumber, constants.OrderNumberPrefix)
	if len(digits) != 20 {
		t.Fatalf("expected 20 digits after the prefix, got %q", order.OrderNumber)
	}
	if _, err := time.Parse("20060102150405", digits[:14]); err != nil {
		t.Fatalf("order number must embed a timestamp: %s (%v)", order.OrderNumber, err)
	}
	if order.CustomerEmail != "buyer@example.com" {
		t.Fatalf("email must be lowercased, got %s", order.CustomerEmail)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("expected subtotal 21, got %s", order.Subtotal.String())
	}
	if !order.PromoDiscount.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected discount 5, got %s", order.PromoDiscount.String())
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("expected total 16, got %s", order.TotalPrice.String())
	}
	if order.PromoCode != "FIVE" || order.PromoCodeID == nil {
		t.Fatalf("expected promo snapshot, got %q %v", order.PromoCode, order.PromoCodeID)
	}

	// Item totals must sum to the subtotal, snapshots must match the
	// catalog at checkout time.
	itemSum := decimal.Zero
	for _, item := range order.Items {
		itemSum = itemSum.Add(item.TotalPrice.Decimal)
		if item.ProductName != product.Name || item.ProductSlug != product.Slug {
			t.Fatalf("item snapshot mismatch: %+v", item)
		}
		if !item.UnitPrice.Decimal.Equal(product.Price.Decimal) {
			t.Fatalf("unit price snapshot mismatch: %s", item.UnitPrice.String())
		}
	}
	if !itemSum.Equal(order.Subtotal.Decimal) {
		t.Fatalf("item totals %s must sum to subtotal %s", itemSum.String(), order.Subtotal.String())
	}

	var reloadedPromo models.PromoCode
	if err := env.db.First(&reloadedPromo, promo.ID).Error; err != nil {
		t.Fatalf("reload promo failed: %v", err)
	}
	if reloadedPromo.UsedCount != 1 {
		t.Fatalf("expected promo usage consumed, got %d", reloadedPromo.UsedCount)
	}

	var historyCount int64
	env.db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&historyCount)
	if historyCount != 1 {
		t.Fatalf("expected 1 history entry, got %d", historyCount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := setupOrderFlowTest(t, "order_create_validation")
	product := env.createProduct(t, "inactive", decimal.NewFromInt(10), false)
	if err := env.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if _, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
	}); !errors.Is(err, ErrOrderEmptyCart) {
		t.Fatalf("expected ErrOrderEmptyCart, got %v", err)
	}
	if _, err := env.orderSvc.CreateOrder(CreateOrderInput{
		Items: []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected ErrOrderInvalidInput for missing email, got %v", err)
	}
	if _, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}
	if _, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: 99999, Quantity: 1}},
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateFreeOrderDeliversImmediately(t *testing.T) {
	env := setupOrderFlowTest(t, "order_create_free")
	product := env.createProduct(t, "freebie", decimal.Zero, false)
	env.createFile(t, product.ID, "freebie.zip", "")

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if order.PaymentStatus != constants.PaymentStatusFree {
		t.Fatalf("expected free payment status, got %s", order.PaymentStatus)
	}
	if order.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected auto-deliverable free order to complete, got %s", order.Status)
	}
	var grantCount int64
	env.db.Model(&models.OrderDesignFile{}).Where("order_id = ?", order.ID).Count(&grantCount)
	if grantCount != 1 {
		t.Fatalf("expected 1 grant, got %d", grantCount)
	}
}

func TestCompleteFreeOrderRejectsPayableOrder(t *testing.T) {
	env := setupOrderFlowTest(t, "order_free_guard")
	product := env.createProduct(t, "paid-product", decimal.NewFromInt(10), false)

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	if _, err := env.orderSvc.CompleteFreeOrder(order.ID, "a@b.com"); !errors.Is(err, ErrOrderNotFree) {
		t.Fatalf("expected ErrOrderNotFree, got %v", err)
	}
	// The wrong email never reveals the order exists.
	if _, err := env.orderSvc.CompleteFreeOrder(order.ID, "other@b.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for wrong email, got %v", err)
	}
}

func TestGetByNumberForCustomer(t *testing.T) {
	env := setupOrderFlowTest(t, "order_get_by_number")
	product := env.createProduct(t, "lookup", decimal.NewFromInt(10), false)

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerEmail: "a@b.com",
		Items:         []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order error: %v", err)
	}
	loaded, err := env.orderSvc.GetByNumberForCustomer(" "+order.OrderNumber+" ", " A@B.com ")
	if err != nil {
		t.Fatalf("get by number error: %v", err)
	}
	if loaded.ID != order.ID {
		t.Fatalf("expected order %d, got %d", order.ID, loaded.ID)
	}
	if _, err := env.orderSvc.GetByNumberForCustomer(order.OrderNumber, "other@b.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("wrong email must look like a missing order, got %v", err)
	}
	if _, err := env.orderSvc.GetByNumberForCustomer("PD00000000000000000000", "a@b.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
