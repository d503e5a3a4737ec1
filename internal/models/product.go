package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ColorList stores a product's selectable colors in a json column.
type ColorList []ColorSelection

// Value implements driver.Valuer.
func (l ColorList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *ColorList) Scan(value interface{}) error {
	if value == nil {
		*l = ColorList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Product is one digital design product (overlay, alert, template).
type Product struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	CategoryID           uint           `gorm:"not null;index" json:"category_id"`
	Slug                 string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name                 string         `gorm:"not null" json:"name"`
	Description          string         `gorm:"type:text" json:"description"`
	Price                Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Images               StringArray    `gorm:"type:json" json:"images"`
	Tags                 StringArray    `gorm:"type:json" json:"tags"`
	EnableCustomizations bool           `gorm:"not null;default:false" json:"enable_customizations"`
	Colors               ColorList      `gorm:"type:json" json:"colors"`
	IsActive             bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder            int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Category    Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DesignFiles []DesignFile `gorm:"foreignKey:ProductID" json:"design_files,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// Category groups products for browsing.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string         `gorm:"not null" json:"name"`
	Icon      string         `gorm:"type:varchar(500)" json:"icon"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// Review is one customer review pending admin moderation.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`
	UserID    uint           `gorm:"index" json:"user_id,omitempty"`
	Author    string         `gorm:"type:varchar(200)" json:"author"`
	Rating    int            `gorm:"not null" json:"rating"`
	Comment   string         `gorm:"type:text" json:"comment"`
	Status    string         `gorm:"index;not null;default:'pending'" json:"status"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Review) TableName() string {
	return "reviews"
}
