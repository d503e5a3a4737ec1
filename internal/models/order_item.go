package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ColorSelection is one selected product color.
type ColorSelection struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// TextChange is one requested text edit on a design.
type TextChange struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Customizations is the canonical customization payload captured from the
// cart at checkout. Inbound payloads are normalized into this shape at the
// HTTP boundary; business logic never re-parses raw JSON.
type Customizations struct {
	Colors         []ColorSelection `json:"colors,omitempty"`
	TextChanges    []TextChange     `json:"text_changes,omitempty"`
	UploadedImages []string         `json:"uploaded_images,omitempty"`
	UploadedLogo   string           `json:"uploaded_logo,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// Value implements driver.Valuer.
func (c Customizations) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Customizations) Scan(value interface{}) error {
	if value == nil {
		*c = Customizations{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// IsEmpty reports whether the payload carries nothing at all.
func (c Customizations) IsEmpty() bool {
	return len(c.Colors) == 0 &&
		len(c.TextChanges) == 0 &&
		len(c.UploadedImages) == 0 &&
		c.UploadedLogo == "" &&
		c.Notes == ""
}

// OrderItem is one purchased product line. Product fields are denormalized
// snapshots so historical orders stay stable when the catalog changes.
type OrderItem struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	OrderID           uint           `gorm:"index;not null" json:"order_id"`
	ProductID         uint           `gorm:"index;not null" json:"product_id"`
	ProductName       string         `gorm:"not null" json:"product_name"`
	ProductSlug       string         `gorm:"not null" json:"product_slug"`
	Quantity          int            `gorm:"not null" json:"quantity"`
	OriginalPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`
	PromoDiscount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"promo_discount"`
	UnitPrice         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	TotalPrice        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	HasCustomizations bool           `gorm:"not null;default:false" json:"has_customizations"`
	Customizations    Customizations `gorm:"type:json" json:"customizations"`
	DeliveryStatus    string         `gorm:"not null;default:'pending'" json:"delivery_status"`
	DeliveryNotes     string         `gorm:"type:text" json:"delivery_notes,omitempty"`
	DeliveredAt       *time.Time     `gorm:"index" json:"delivered_at,omitempty"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
