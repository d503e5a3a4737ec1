package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is one customer purchase. Orders are never hard-deleted; terminal
// states are completed / cancelled.
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	OrderNumber         string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID              uint           `gorm:"index" json:"user_id,omitempty"` // 0 for guest orders
	CustomerName        string         `gorm:"type:varchar(200)" json:"customer_name"`
	CustomerEmail       string         `gorm:"index;not null" json:"customer_email"`
	Status              string         `gorm:"index;not null" json:"status"`
	PaymentStatus       string         `gorm:"index;not null" json:"payment_status"`
	CustomizationStatus string         `gorm:"not null;default:'none'" json:"customization_status"`
	Currency            string         `gorm:"not null" json:"currency"`
	Subtotal            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	PromoDiscount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"promo_discount"`
	TotalPrice          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	PromoCodeID         *uint          `gorm:"index" json:"promo_code_id,omitempty"`
	PromoCode           string         `gorm:"type:varchar(64)" json:"promo_code,omitempty"` // code snapshot at checkout
	ProviderOrderRef    string         `gorm:"index;type:varchar(128)" json:"provider_order_ref,omitempty"`
	ProviderCaptureRef  string         `gorm:"type:varchar(128)" json:"provider_capture_ref,omitempty"`
	ClientIP            string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	DeliveryExpiresAt   *time.Time     `gorm:"index" json:"delivery_expires_at,omitempty"`
	PaidAt              *time.Time     `gorm:"index" json:"paid_at,omitempty"`
	CompletedAt         *time.Time     `gorm:"index" json:"completed_at,omitempty"`
	CancelledAt         *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Items   []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	History []OrderHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
	Grants  []OrderDesignFile `gorm:"foreignKey:OrderID" json:"grants,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderHistory is one append-only status-change record. Rows are created,
// never updated.
type OrderHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Status    string    `gorm:"not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	Actor     string    `gorm:"type:varchar(40);not null" json:"actor"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderHistory) TableName() string {
	return "order_histories"
}
