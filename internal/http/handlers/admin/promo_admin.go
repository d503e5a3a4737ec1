package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type promoRequest struct {
	Code        string     `json:"code" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	Value       string     `json:"value" binding:"required"`
	MinAmount   string     `json:"min_amount"`
	MaxDiscount string     `json:"max_discount"`
	ScopeType   string     `json:"scope_type"`
	ProductID   *uint      `json:"product_id"`
	UsageLimit  int        `json:"usage_limit"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	IsActive    *bool      `json:"is_active"`
}

func (r promoRequest) apply(promo *models.PromoCode) error {
	value, err := decimal.NewFromString(r.Value)
	if err != nil || value.LessThan(decimal.Zero) {
		return service.ErrOrderInvalidInput
	}
	if r.Type != constants.PromoTypeFixed && r.Type != constants.PromoTypePercent {
		return service.ErrOrderInvalidInput
	}
	scope := r.ScopeType
	if scope == "" {
		scope = constants.PromoScopeAll
	}
	if scope == constants.PromoScopeProduct && r.ProductID == nil {
		return service.ErrOrderInvalidInput
	}

	promo.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	promo.Type = r.Type
	promo.Value = models.NewMoneyFromDecimal(value)
	promo.ScopeType = scope
	promo.ProductID = r.ProductID
	promo.UsageLimit = r.UsageLimit
	promo.StartsAt = r.StartsAt
	promo.EndsAt = r.EndsAt
	if r.MinAmount != "" {
		min, err := decimal.NewFromString(r.MinAmount)
		if err != nil {
			return service.ErrOrderInvalidInput
		}
		promo.MinAmount = models.NewMoneyFromDecimal(min)
	}
	if r.MaxDiscount != "" {
		max, err := decimal.NewFromString(r.MaxDiscount)
		if err != nil {
			return service.ErrOrderInvalidInput
		}
		promo.MaxDiscount = models.NewMoneyFromDecimal(max)
	}
	if r.IsActive != nil {
		promo.IsActive = *r.IsActive
	} else {
		promo.IsActive = true
	}
	return nil
}

// ListPromoCodes returns a filtered promo code page.
func (h *Handler) ListPromoCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	codes, total, err := h.promos.ListCodes(repository.PromoCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, codes, response.NewPagination(page, pageSize, total))
}

// CreatePromoCode inserts a promo code.
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid promo code payload")
		return
	}
	var promo models.PromoCode
	if err := req.apply(&promo); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.promos.CreateCode(&promo); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, promo)
}

// UpdatePromoCode saves an existing promo code.
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid promo code id")
		return
	}
	promo, err := h.promos.GetCode(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid promo code payload")
		return
	}
	if err := req.apply(promo); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.promos.UpdateCode(promo); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, promo)
}

// DeletePromoCode removes a promo code.
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid promo code id")
		return
	}
	if err := h.promos.DeleteCode(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
