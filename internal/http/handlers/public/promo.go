package public

import (
	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type validatePromoItem struct {
	ProductID uint   `json:"product_id" binding:"required"`
	LineTotal string `json:"line_total" binding:"required"`
}

type validatePromoRequest struct {
	Code  string              `json:"code" binding:"required"`
	Items []validatePromoItem `json:"items" binding:"required,min=1,dive"`
}

// ValidatePromo prices a promo code against the current cart without
// creating anything.
func (h *Handler) ValidatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "بيانات كود الخصم غير صحيحة")
		return
	}
	lines := make([]service.PromoLine, 0, len(req.Items))
	for _, item := range req.Items {
		total, err := decimal.NewFromString(item.LineTotal)
		if err != nil || total.LessThan(decimal.Zero) {
			response.BadRequest(c, "قيمة السلة غير صحيحة")
			return
		}
		lines = append(lines, service.PromoLine{ProductID: item.ProductID, LineTotal: total})
	}

	quote, err := h.promos.Quote(req.Code, lines)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"code":     quote.Promo.Code,
		"type":     quote.Promo.Type,
		"discount": quote.TotalDiscount.Round(2).StringFixed(2),
	})
}
