package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode is a discount rule scoped to one product or all products. Orders
// reference it only through a code/id snapshot, so later edits never alter
// historical totals.
type PromoCode struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`
	Type         string         `gorm:"not null" json:"type"` // fixed / percent
	Value        Money          `gorm:"type:decimal(20,2);not null" json:"value"`
	MinAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"`
	MaxDiscount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`
	ScopeType    string         `gorm:"not null;default:'all'" json:"scope_type"`
	ProductID    *uint          `gorm:"index" json:"product_id,omitempty"`
	UsageLimit   int            `gorm:"not null;default:0" json:"usage_limit"` // 0 means unlimited
	UsedCount    int            `gorm:"not null;default:0" json:"used_count"`
	StartsAt     *time.Time     `gorm:"index" json:"starts_at,omitempty"`
	EndsAt       *time.Time     `gorm:"index" json:"ends_at,omitempty"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PromoCode) TableName() string {
	return "promo_codes"
}
