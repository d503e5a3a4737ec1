package public

import (
	"errors"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinel errors to storefront
// responses. Customer-facing messages are in Arabic; anything unmapped
// is logged and returned as a generic internal error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, "الطلب غير موجود")
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, "المنتج غير موجود")
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, "القسم غير موجود")
	case errors.Is(err, service.ErrReviewNotFound):
		response.NotFound(c, "التقييم غير موجود")
	case errors.Is(err, service.ErrProductInactive):
		response.BadRequest(c, "المنتج غير متوفر حالياً")
	case errors.Is(err, service.ErrOrderEmptyCart):
		response.BadRequest(c, "سلة المشتريات فارغة")
	case errors.Is(err, service.ErrOrderInvalidInput):
		response.BadRequest(c, "بيانات الطلب غير صحيحة")
	case errors.Is(err, service.ErrOrderNotFree):
		response.BadRequest(c, "هذا الطلب يتطلب الدفع")
	case errors.Is(err, service.ErrPaymentNotRequired):
		response.BadRequest(c, "هذا الطلب لا يتطلب الدفع")
	case errors.Is(err, service.ErrPromoNotFound),
		errors.Is(err, service.ErrPromoInactive),
		errors.Is(err, service.ErrPromoExpired):
		response.BadRequest(c, "كود الخصم غير صالح")
	case errors.Is(err, service.ErrPromoUsageExceeded):
		response.BadRequest(c, "تم استنفاد مرات استخدام كود الخصم")
	case errors.Is(err, service.ErrPromoMinAmount):
		response.BadRequest(c, "قيمة الطلب أقل من الحد الأدنى لكود الخصم")
	case errors.Is(err, service.ErrPromoScopeMismatch):
		response.BadRequest(c, "كود الخصم لا ينطبق على هذه المنتجات")
	case errors.Is(err, service.ErrOrderStateConflict):
		response.Conflict(c, "حالة الطلب لا تسمح بهذه العملية")
	case errors.Is(err, service.ErrGrantNotFound):
		response.Forbidden(c, "ليس لديك صلاحية الوصول لهذا الملف")
	case errors.Is(err, service.ErrGrantExpired):
		response.Gone(c, "انتهت صلاحية رابط التحميل")
	case errors.Is(err, service.ErrGrantLimitReached):
		response.TooManyRequests(c, "تم تجاوز الحد الأقصى لمرات التحميل")
	case errors.Is(err, service.ErrDesignFileNotFound):
		response.NotFound(c, "الملف غير موجود")
	default:
		logger.Errorw("public_api_internal_error", "path", c.FullPath(), "error", err)
		response.Internal(c, "حدث خطأ غير متوقع، حاول مرة أخرى")
	}
}
