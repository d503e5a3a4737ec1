package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPromoTest(t *testing.T) (*PromoService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:promo_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromoCode{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPromoService(repository.NewPromoCodeRepository(db)), db
}

func TestQuotePercentWithCap(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := models.PromoCode{
		Code:        "TEN",
		Type:        constants.PromoTypePercent,
		Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		ScopeType:   constants.PromoScopeAll,
		IsActive:    true,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	quote, err := svc.Quote("TEN", []PromoLine{
		{ProductID: 1, LineTotal: decimal.NewFromInt(100)},
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	// 10% of 100 is 10, capped at 5.
	if !quote.TotalDiscount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected capped discount 5, got %s", quote.TotalDiscount.String())
	}
}

func TestQuoteFixedCappedAtApplicableTotal(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := models.PromoCode{
		Code:      "BIG",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		ScopeType: constants.PromoScopeAll,
		IsActive:  true,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	quote, err := svc.Quote("BIG", []PromoLine{
		{ProductID: 1, LineTotal: decimal.NewFromInt(30)},
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if !quote.TotalDiscount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("discount must never exceed the applicable total, got %s", quote.TotalDiscount.String())
	}
}

func TestQuoteProductScope(t *testing.T) {
	svc, db := setupPromoTest(t)
	productID := uint(7)
	promo := models.PromoCode{
		Code:      "SCOPED",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		ScopeType: constants.PromoScopeProduct,
		ProductID: &productID,
		IsActive:  true,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	// Cart without the scoped product is rejected.
	if _, err := svc.Quote("SCOPED", []PromoLine{
		{ProductID: 1, LineTotal: decimal.NewFromInt(40)},
	}); !errors.Is(err, ErrPromoScopeMismatch) {
		t.Fatalf("expected ErrPromoScopeMismatch, got %v", err)
	}

	// The discount lands only on the scoped line.
	quote, err := svc.Quote("SCOPED", []PromoLine{
		{ProductID: 1, LineTotal: decimal.NewFromInt(40)},
		{ProductID: 7, LineTotal: decimal.NewFromInt(20)},
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if !quote.LineDiscounts[0].Equal(decimal.Zero) {
		t.Fatalf("out-of-scope line must get no discount, got %s", quote.LineDiscounts[0].String())
	}
	if !quote.LineDiscounts[1].Equal(decimal.NewFromInt(5)) {
		t.Fatalf("scoped line must carry the discount, got %s", quote.LineDiscounts[1].String())
	}
}

func TestQuoteLineAllocationSumsExactly(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := models.PromoCode{
		Code:      "SPLIT",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		ScopeType: constants.PromoScopeAll,
		IsActive:  true,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	lines := []PromoLine{
		{ProductID: 1, LineTotal: decimal.NewFromInt(33)},
		{ProductID: 2, LineTotal: decimal.NewFromInt(33)},
		{ProductID: 3, LineTotal: decimal.NewFromInt(34)},
	}
	quote, err := svc.Quote("SPLIT", lines)
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	sum := decimal.Zero
	for _, share := range quote.LineDiscounts {
		sum = sum.Add(share)
	}
	if !sum.Equal(quote.TotalDiscount) {
		t.Fatalf("line discounts sum %s must equal total %s", sum.String(), quote.TotalDiscount.String())
	}
}

func TestQuoteValidationFailures(t *testing.T) {
	svc, db := setupPromoTest(t)
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	pastEnd := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	promos := []models.PromoCode{
		{Code: "OFF", Type: constants.PromoTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), ScopeType: constants.PromoScopeAll, IsActive: false},
		{Code: "ENDED", Type: constants.PromoTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), ScopeType: constants.PromoScopeAll, IsActive: true, StartsAt: &past, EndsAt: &pastEnd},
		{Code: "SOON", Type: constants.PromoTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), ScopeType: constants.PromoScopeAll, IsActive: true, StartsAt: &future},
		{Code: "USED", Type: constants.PromoTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), ScopeType: constants.PromoScopeAll, IsActive: true, UsageLimit: 2, UsedCount: 2},
		{Code: "MIN", Type: constants.PromoTypeFixed, Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)), MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), ScopeType: constants.PromoScopeAll, IsActive: true},
	}
	for i := range promos {
		if err := db.Create(&promos[i]).Error; err != nil {
			t.Fatalf("create promo failed: %v", err)
		}
	}

	lines := []PromoLine{{ProductID: 1, LineTotal: decimal.NewFromInt(50)}}
	cases := []struct {
		code string
		want error
	}{
		{"MISSING", ErrPromoNotFound},
		{"OFF", ErrPromoInactive},
		{"ENDED", ErrPromoExpired},
		{"SOON", ErrPromoExpired},
		{"USED", ErrPromoUsageExceeded},
		{"MIN", ErrPromoMinAmount},
	}
	for _, tc := range cases {
		if _, err := svc.Quote(tc.code, lines); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestConsumeUsageIncrementsCounter(t *testing.T) {
	svc, db := setupPromoTest(t)
	promo := models.PromoCode{
		Code:      "COUNT",
		Type:      constants.PromoTypeFixed,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
		ScopeType: constants.PromoScopeAll,
		IsActive:  true,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	if err := svc.ConsumeUsage(promo.ID); err != nil {
		t.Fatalf("consume usage failed: %v", err)
	}
	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}
}
