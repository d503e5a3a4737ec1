package service

import (
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoLine is one cart line presented for discount pricing.
type PromoLine struct {
	ProductID uint
	LineTotal decimal.Decimal
}

// PromoQuote is the priced result of applying a promo code to a cart.
type PromoQuote struct {
	Promo         *models.PromoCode
	TotalDiscount decimal.Decimal
	LineDiscounts []decimal.Decimal // aligned with the input lines
}

// PromoService validates promo codes and prices discounts.
type PromoService struct {
	promos repository.PromoCodeRepository
	now    func() time.Time
}

// NewPromoService creates a promo service.
func NewPromoService(promos repository.PromoCodeRepository) *PromoService {
	return &PromoService{promos: promos, now: time.Now}
}

// Quote validates the code against the cart and prices the discount.
// The discount is allocated across applicable lines proportionally, with
// the rounding remainder carried by the last applicable line so that the
// line discounts always sum to the total discount exactly.
func (s *PromoService) Quote(code string, lines []PromoLine) (*PromoQuote, error) {
	promo, err := s.promos.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	if !promo.IsActive {
		return nil, ErrPromoInactive
	}
	now := s.now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return nil, ErrPromoExpired
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return nil, ErrPromoExpired
	}
	if promo.UsageLimit > 0 && promo.UsedCount >= promo.UsageLimit {
		return nil, ErrPromoUsageExceeded
	}

	applicable := make([]bool, len(lines))
	applicableTotal := decimal.Zero
	subtotal := decimal.Zero
	for i, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
		if promo.ScopeType == constants.PromoScopeProduct {
			if promo.ProductID == nil || *promo.ProductID != line.ProductID {
				continue
			}
		}
		applicable[i] = true
		applicableTotal = applicableTotal.Add(line.LineTotal)
	}
	if applicableTotal.IsZero() {
		return nil, ErrPromoScopeMismatch
	}
	if promo.MinAmount.Decimal.GreaterThan(decimal.Zero) && subtotal.LessThan(promo.MinAmount.Decimal) {
		return nil, ErrPromoMinAmount
	}

	total := computeDiscount(promo, applicableTotal)
	quote := &PromoQuote{
		Promo:         promo,
		TotalDiscount: total,
		LineDiscounts: make([]decimal.Decimal, len(lines)),
	}

	lastApplicable := -1
	allocated := decimal.Zero
	for i := range lines {
		if applicable[i] {
			lastApplicable = i
		}
	}
	for i, line := range lines {
		if !applicable[i] {
			continue
		}
		if i == lastApplicable {
			quote.LineDiscounts[i] = total.Sub(allocated)
			continue
		}
		share := total.Mul(line.LineTotal).Div(applicableTotal).Round(2)
		quote.LineDiscounts[i] = share
		allocated = allocated.Add(share)
	}
	return quote, nil
}

// ConsumeUsage bumps the usage counter after an order using the code is
// created.
func (s *PromoService) ConsumeUsage(promoID uint) error {
	return s.promos.IncrementUsedCount(promoID)
}

// ListCodes returns a filtered promo code page for the admin panel.
func (s *PromoService) ListCodes(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	return s.promos.List(filter)
}

// GetCode loads one promo code.
func (s *PromoService) GetCode(id uint) (*models.PromoCode, error) {
	promo, err := s.promos.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}

// CreateCode inserts a promo code.
func (s *PromoService) CreateCode(promo *models.PromoCode) error {
	return s.promos.Create(promo)
}

// UpdateCode saves a promo code.
func (s *PromoService) UpdateCode(promo *models.PromoCode) error {
	return s.promos.Update(promo)
}

// DeleteCode removes a promo code.
func (s *PromoService) DeleteCode(id uint) error {
	return s.promos.Delete(id)
}

func computeDiscount(promo *models.PromoCode, applicableTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch promo.Type {
	case constants.PromoTypePercent:
		discount = applicableTotal.Mul(promo.Value.Decimal).Div(decimal.NewFromInt(100)).Round(2)
		if promo.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(promo.MaxDiscount.Decimal) {
			discount = promo.MaxDiscount.Decimal
		}
	default:
		discount = promo.Value.Decimal
	}
	if discount.GreaterThan(applicableTotal) {
		discount = applicableTotal
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	return discount.Round(2)
}
