package repository

import "time"

// ProductListFilter filters product listings.
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter filters order listings.
type OrderListFilter struct {
	Page                int
	PageSize            int
	UserID              uint
	Status              string
	PaymentStatus       string
	CustomizationStatus string
	OrderNumber         string
	CustomerEmail       string
	CreatedFrom         *time.Time
	CreatedTo           *time.Time
}

// ReviewListFilter filters review listings.
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	Status    string
}

// PromoCodeListFilter filters promo code listings.
type PromoCodeListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
