package service

import "errors"

// Sentinel errors used across the service layer. Handlers map these to
// HTTP responses; everything else is treated as an internal error.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStateConflict   = errors.New("order state does not allow this operation")
	ErrOrderNotFree         = errors.New("order total is not zero")
	ErrOrderNumberExhausted = errors.New("order number generation retries exhausted")
	ErrOrderEmptyCart       = errors.New("order has no items")
	ErrOrderInvalidInput    = errors.New("order input invalid")

	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not available")
	ErrCategoryNotFound = errors.New("category not found")
	ErrReviewNotFound   = errors.New("review not found")

	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoInactive      = errors.New("promo code is not active")
	ErrPromoExpired       = errors.New("promo code is outside its validity window")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
	ErrPromoMinAmount     = errors.New("order amount below promo code minimum")
	ErrPromoScopeMismatch = errors.New("promo code does not apply to these products")

	ErrDesignFileNotFound = errors.New("design file not found")
	ErrGrantNotFound      = errors.New("download grant not found")
	ErrGrantExpired       = errors.New("download grant expired")
	ErrGrantLimitReached  = errors.New("download limit reached")

	ErrPaymentAmountMismatch = errors.New("captured amount does not match order total")
	ErrPaymentNotRequired    = errors.New("order does not require payment")
	ErrRefundFailed          = errors.New("provider refund failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)
